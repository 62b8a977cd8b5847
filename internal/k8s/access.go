package k8s

import (
	"context"
	"slices"
	"strings"

	authorizationv1 "k8s.io/api/authorization/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// accessVerbs are the API verbs an access check may ask about.
var accessVerbs = []string{"get", "list", "watch", "create", "update", "patch", "delete", "deletecollection"}

// AccessCheck describes a permission check for the server's own identity.
type AccessCheck struct {
	Verb        string `json:"verb"`
	Resource    string `json:"resource"`
	APIGroup    string `json:"apiGroup,omitempty"`
	Namespace   string `json:"namespace,omitempty"`
	Name        string `json:"name,omitempty"`
	Subresource string `json:"subresource,omitempty"`
}

// AccessResult is the API server's answer to an AccessCheck.
type AccessResult struct {
	Allowed         bool         `json:"allowed"`
	Denied          bool         `json:"denied,omitempty"`
	Reason          string       `json:"reason,omitempty"`
	EvaluationError string       `json:"evaluationError,omitempty"`
	Check           *AccessCheck `json:"check"`
}

// Validate normalizes the verb and resource and checks the required fields.
func (a *AccessCheck) Validate() error {
	a.Verb = strings.ToLower(strings.TrimSpace(a.Verb))
	a.Resource = strings.ToLower(strings.TrimSpace(a.Resource))

	if a.Verb == "" {
		return NewValidationError("verb", "is required")
	}
	if !slices.Contains(accessVerbs, a.Verb) {
		return NewValidationError("verb", "must be one of "+strings.Join(accessVerbs, ", "))
	}
	if a.Resource == "" {
		return NewValidationError("resource", "is required")
	}
	if strings.Contains(a.Resource, "/") {
		return NewValidationError("resource", "must not contain '/', use subresource instead")
	}
	return nil
}

// CheckAccess asks the API server, through a SelfSubjectAccessReview, whether
// the server's credentials allow the described action. Restricted namespaces
// are reported as denied without a round trip.
func (c *kubernetesClient) CheckAccess(ctx context.Context, check AccessCheck) (*AccessResult, error) {
	if err := check.Validate(); err != nil {
		return nil, err
	}
	if check.Namespace != "" && c.checkNamespace(check.Namespace) != nil {
		return &AccessResult{Denied: true, Reason: "namespace is restricted by server configuration", Check: &check}, nil
	}
	c.logOperation("check-access", check.Namespace, check.Resource, check.Name)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	review := &authorizationv1.SelfSubjectAccessReview{
		Spec: authorizationv1.SelfSubjectAccessReviewSpec{
			ResourceAttributes: &authorizationv1.ResourceAttributes{
				Namespace:   check.Namespace,
				Verb:        check.Verb,
				Group:       check.APIGroup,
				Resource:    check.Resource,
				Name:        check.Name,
				Subresource: check.Subresource,
			},
		},
	}
	result, err := c.clientset.AuthorizationV1().SelfSubjectAccessReviews().Create(ctx, review, metav1.CreateOptions{})
	if err != nil {
		return nil, newClusterAPIError("create", "selfsubjectaccessreviews", check.Namespace, check.Name, err)
	}

	return &AccessResult{
		Allowed:         result.Status.Allowed,
		Denied:          result.Status.Denied,
		Reason:          result.Status.Reason,
		EvaluationError: result.Status.EvaluationError,
		Check:           &check,
	}, nil
}
