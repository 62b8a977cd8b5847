package k8s

import (
	"fmt"
	"sort"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/util/intstr"
)

// envVars converts a map into env vars sorted by name so generated specs
// are stable.
func envVars(env map[string]string) []corev1.EnvVar {
	if len(env) == 0 {
		return nil
	}
	names := make([]string, 0, len(env))
	for k := range env {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make([]corev1.EnvVar, 0, len(names))
	for _, n := range names {
		out = append(out, corev1.EnvVar{Name: n, Value: env[n]})
	}
	return out
}

// mergeEnv sets or replaces variables in existing, keeping unrelated ones.
func mergeEnv(existing []corev1.EnvVar, env map[string]string) []corev1.EnvVar {
	if len(env) == 0 {
		return existing
	}
	out := make([]corev1.EnvVar, 0, len(existing)+len(env))
	for _, e := range existing {
		if _, replaced := env[e.Name]; !replaced {
			out = append(out, e)
		}
	}
	return append(out, envVars(env)...)
}

func parseQuantity(field, value string) (resource.Quantity, error) {
	q, err := resource.ParseQuantity(value)
	if err != nil {
		return resource.Quantity{}, NewValidationError(field, fmt.Sprintf("%q is not a valid quantity", value))
	}
	return q, nil
}

func resourceRequirements(opts ResourceOptions) (corev1.ResourceRequirements, error) {
	req := corev1.ResourceRequirements{}
	entries := []struct {
		field string
		value string
		name  corev1.ResourceName
		limit bool
	}{
		{"cpuRequest", opts.CPURequest, corev1.ResourceCPU, false},
		{"memoryRequest", opts.MemoryRequest, corev1.ResourceMemory, false},
		{"cpuLimit", opts.CPULimit, corev1.ResourceCPU, true},
		{"memoryLimit", opts.MemoryLimit, corev1.ResourceMemory, true},
	}

	for _, e := range entries {
		if e.value == "" {
			continue
		}
		q, err := parseQuantity(e.field, e.value)
		if err != nil {
			return req, err
		}
		if e.limit {
			if req.Limits == nil {
				req.Limits = corev1.ResourceList{}
			}
			req.Limits[e.name] = q
		} else {
			if req.Requests == nil {
				req.Requests = corev1.ResourceList{}
			}
			req.Requests[e.name] = q
		}
	}
	return req, nil
}

// withResourceDefaults fills every unset request and limit.
func withResourceDefaults(opts ResourceOptions) ResourceOptions {
	if opts.CPURequest == "" {
		opts.CPURequest = DefaultCPURequest
	}
	if opts.CPULimit == "" {
		opts.CPULimit = DefaultCPULimit
	}
	if opts.MemoryRequest == "" {
		opts.MemoryRequest = DefaultMemoryRequest
	}
	if opts.MemoryLimit == "" {
		opts.MemoryLimit = DefaultMemoryLimit
	}
	return opts
}

func withProbeDefaults(p HTTPProbeOptions, containerPort int32) HTTPProbeOptions {
	if p.LivenessPath == "" {
		p.LivenessPath = DefaultLivenessPath
	}
	if p.ReadinessPath == "" {
		p.ReadinessPath = DefaultReadinessPath
	}
	if p.Port == 0 {
		p.Port = containerPort
	}
	if p.InitialDelaySeconds == 0 {
		p.InitialDelaySeconds = DefaultProbeInitialDelay
	}
	if p.PeriodSeconds == 0 {
		p.PeriodSeconds = DefaultProbePeriod
	}
	if p.TimeoutSeconds == 0 {
		p.TimeoutSeconds = DefaultProbeTimeout
	}
	if p.SuccessThreshold == 0 {
		p.SuccessThreshold = DefaultProbeSuccess
	}
	if p.FailureThreshold == 0 {
		p.FailureThreshold = DefaultProbeFailure
	}
	return p
}

func httpProbe(path string, p HTTPProbeOptions) *corev1.Probe {
	return &corev1.Probe{
		ProbeHandler: corev1.ProbeHandler{
			HTTPGet: &corev1.HTTPGetAction{
				Path: path,
				Port: intstr.FromInt32(p.Port),
			},
		},
		InitialDelaySeconds: p.InitialDelaySeconds,
		PeriodSeconds:       p.PeriodSeconds,
		TimeoutSeconds:      p.TimeoutSeconds,
		SuccessThreshold:    p.SuccessThreshold,
		FailureThreshold:    p.FailureThreshold,
	}
}

// buildContainer creates the single container of a workload.
func buildContainer(opts ContainerOptions, defaultName string) (corev1.Container, error) {
	if opts.Image == "" {
		return corev1.Container{}, NewValidationError("image", "is required")
	}

	name := opts.ContainerName
	if name == "" {
		name = defaultName
	}
	port := opts.ContainerPort
	if port == 0 {
		port = DefaultContainerPort
	}
	if port < 1 || port > 65535 {
		return corev1.Container{}, NewValidationError("containerPort", fmt.Sprintf("%d is out of range", port))
	}

	res := opts.Resources
	if opts.DefaultResources {
		res = withResourceDefaults(res)
	}
	resources, err := resourceRequirements(res)
	if err != nil {
		return corev1.Container{}, err
	}

	c := corev1.Container{
		Name:      name,
		Image:     opts.Image,
		Command:   opts.Command,
		Args:      opts.Args,
		Ports:     []corev1.ContainerPort{{ContainerPort: port}},
		Env:       envVars(opts.Env),
		Resources: resources,
	}

	if opts.Probes != nil {
		p := withProbeDefaults(*opts.Probes, port)
		c.LivenessProbe = httpProbe(p.LivenessPath, p)
		c.ReadinessProbe = httpProbe(p.ReadinessPath, p)
	}

	return c, nil
}

// defaultLabels returns labels, or {app: name} when none are given.
func defaultLabels(labels map[string]string, name string) map[string]string {
	if len(labels) > 0 {
		return labels
	}
	return map[string]string{"app": name}
}

// applyTemplateUpdate changes the selected container of a pod template.
func applyTemplateUpdate(spec *corev1.PodSpec, opts WorkloadUpdateOptions) error {
	if opts.Image == "" && len(opts.Env) == 0 {
		return nil
	}
	if len(spec.Containers) == 0 {
		return NewValidationError("containerName", "workload has no containers")
	}

	idx := 0
	if opts.ContainerName != "" {
		idx = -1
		for i, c := range spec.Containers {
			if c.Name == opts.ContainerName {
				idx = i
				break
			}
		}
		if idx < 0 {
			return NewValidationError("containerName", fmt.Sprintf("container %q not found", opts.ContainerName))
		}
	}

	if opts.Image != "" {
		spec.Containers[idx].Image = opts.Image
	}
	spec.Containers[idx].Env = mergeEnv(spec.Containers[idx].Env, opts.Env)
	return nil
}

func validateReplicas(replicas int32) error {
	if replicas < 0 {
		return NewValidationError("replicas", "must not be negative")
	}
	return nil
}
