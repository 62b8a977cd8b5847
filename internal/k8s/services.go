package k8s

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	corev1 "k8s.io/api/core/v1"
	discoveryv1 "k8s.io/api/discovery/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/intstr"

	"golang.org/x/sync/errgroup"

	"github.com/giantswarm/mcp-k8s-workloads/internal/selector"
)

// ListServices lists services in a namespace.
func (c *kubernetesClient) ListServices(ctx context.Context, namespace string, opts ListOptions) ([]ServiceInfo, error) {
	if err := requireField("namespace", namespace); err != nil {
		return nil, err
	}
	if err := c.checkNamespace(namespace); err != nil {
		return nil, err
	}
	c.logOperation("list", namespace, "service", "")

	list, err := c.listServices(ctx, namespace, c.listOptions(opts))
	if err != nil {
		return nil, err
	}

	out := make([]ServiceInfo, 0, len(list))
	for i := range list {
		out = append(out, *serviceInfo(&list[i]))
	}
	return out, nil
}

func (c *kubernetesClient) listServices(ctx context.Context, namespace string, opts metav1.ListOptions) ([]corev1.Service, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	list, err := c.clientset.CoreV1().Services(namespace).List(ctx, opts)
	if err != nil {
		return nil, newClusterAPIError("list", "services", namespace, "", err)
	}
	return list.Items, nil
}

func (c *kubernetesClient) getService(ctx context.Context, namespace, name string) (*corev1.Service, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	svc, err := c.clientset.CoreV1().Services(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, newClusterAPIError("get", "service", namespace, name, err)
	}
	return svc, nil
}

// GetService returns the details of a service.
func (c *kubernetesClient) GetService(ctx context.Context, namespace, name string) (*ServiceInfo, error) {
	if err := c.prepareRead(namespace, name); err != nil {
		return nil, err
	}
	c.logOperation("get", namespace, "service", name)

	svc, err := c.getService(ctx, namespace, name)
	if err != nil {
		return nil, err
	}
	return serviceInfo(svc), nil
}

func buildServicePorts(ports []ServicePortOptions) ([]corev1.ServicePort, error) {
	out := make([]corev1.ServicePort, 0, len(ports))
	for i, p := range ports {
		if p.Port < 1 || p.Port > 65535 {
			return nil, NewValidationError(fmt.Sprintf("ports[%d].port", i), fmt.Sprintf("%d is out of range", p.Port))
		}

		protocol := corev1.Protocol(p.Protocol)
		switch protocol {
		case "":
			protocol = corev1.ProtocolTCP
		case corev1.ProtocolTCP, corev1.ProtocolUDP, corev1.ProtocolSCTP:
		default:
			return nil, NewValidationError(fmt.Sprintf("ports[%d].protocol", i), fmt.Sprintf("unsupported protocol %q", p.Protocol))
		}

		target := intstr.FromInt32(p.Port)
		if p.TargetPort != "" {
			target = intstr.Parse(p.TargetPort)
		}

		out = append(out, corev1.ServicePort{
			Name:       p.Name,
			Port:       p.Port,
			TargetPort: target,
			NodePort:   p.NodePort,
			Protocol:   protocol,
		})
	}
	return out, nil
}

func validateServiceType(t string) (corev1.ServiceType, error) {
	switch st := corev1.ServiceType(t); st {
	case "":
		return corev1.ServiceTypeClusterIP, nil
	case corev1.ServiceTypeClusterIP, corev1.ServiceTypeNodePort, corev1.ServiceTypeLoadBalancer, corev1.ServiceTypeExternalName:
		return st, nil
	default:
		return "", NewValidationError("type", fmt.Sprintf("unsupported service type %q", t))
	}
}

// CreateService creates a service.
func (c *kubernetesClient) CreateService(ctx context.Context, opts ServiceSpecOptions) (*ServiceInfo, error) {
	if err := c.prepareWrite("create", opts.Namespace, opts.Name); err != nil {
		return nil, err
	}

	svcType, err := validateServiceType(opts.Type)
	if err != nil {
		return nil, err
	}
	if svcType == corev1.ServiceTypeExternalName && opts.ExternalName == "" {
		return nil, NewValidationError("externalName", "is required for ExternalName services")
	}
	if svcType != corev1.ServiceTypeExternalName && len(opts.Ports) == 0 {
		return nil, NewValidationError("ports", "at least one port is required")
	}

	ports, err := buildServicePorts(opts.Ports)
	if err != nil {
		return nil, err
	}

	svc := &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:        opts.Name,
			Namespace:   opts.Namespace,
			Labels:      opts.Labels,
			Annotations: opts.Annotations,
		},
		Spec: corev1.ServiceSpec{
			Type:            svcType,
			Selector:        opts.Selector,
			Ports:           ports,
			ClusterIP:       opts.ClusterIP,
			ExternalName:    opts.ExternalName,
			SessionAffinity: corev1.ServiceAffinity(opts.SessionAffinity),
		},
	}
	c.logOperation("create", opts.Namespace, "service", opts.Name)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	created, err := c.clientset.CoreV1().Services(opts.Namespace).Create(ctx, svc, c.createOptions())
	if err != nil {
		return nil, newClusterAPIError("create", "service", opts.Namespace, opts.Name, err)
	}
	return serviceInfo(created), nil
}

// UpdateService replaces the set fields of a service.
func (c *kubernetesClient) UpdateService(ctx context.Context, namespace, name string, opts ServiceUpdateOptions) (*ServiceInfo, error) {
	if err := c.prepareWrite("update", namespace, name); err != nil {
		return nil, err
	}
	c.logOperation("update", namespace, "service", name)

	svc, err := c.getService(ctx, namespace, name)
	if err != nil {
		return nil, err
	}

	if opts.Type != "" {
		t, err := validateServiceType(opts.Type)
		if err != nil {
			return nil, err
		}
		svc.Spec.Type = t
	}
	if opts.Selector != nil {
		svc.Spec.Selector = opts.Selector
	}
	if len(opts.Ports) > 0 {
		ports, err := buildServicePorts(opts.Ports)
		if err != nil {
			return nil, err
		}
		svc.Spec.Ports = ports
	}
	if len(opts.Labels) > 0 {
		svc.Labels = opts.Labels
	}
	if len(opts.Annotations) > 0 {
		svc.Annotations = opts.Annotations
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	updated, err := c.clientset.CoreV1().Services(namespace).Update(ctx, svc, c.updateOptions())
	if err != nil {
		return nil, newClusterAPIError("update", "service", namespace, name, err)
	}
	return serviceInfo(updated), nil
}

// PatchService applies a JSON merge patch to a service.
func (c *kubernetesClient) PatchService(ctx context.Context, namespace, name string, patch []byte) (*ServiceInfo, error) {
	if err := c.prepareWrite("patch", namespace, name); err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return nil, NewValidationError("patch", "is required")
	}
	c.logOperation("patch", namespace, "service", name)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	patched, err := c.clientset.CoreV1().Services(namespace).Patch(ctx, name, types.MergePatchType, patch, c.patchOptions())
	if err != nil {
		return nil, newClusterAPIError("patch", "service", namespace, name, err)
	}
	return serviceInfo(patched), nil
}

// DeleteService deletes a service.
func (c *kubernetesClient) DeleteService(ctx context.Context, namespace, name string) error {
	if err := c.prepareWrite("delete", namespace, name); err != nil {
		return err
	}
	c.logOperation("delete", namespace, "service", name)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.clientset.CoreV1().Services(namespace).Delete(ctx, name, c.foregroundDelete(nil)); err != nil {
		return newClusterAPIError("delete", "service", namespace, name, err)
	}
	return nil
}

// GetServiceEndpoints merges the endpoint slices of a service.
func (c *kubernetesClient) GetServiceEndpoints(ctx context.Context, namespace, name string) (*ServiceEndpoints, error) {
	if err := c.prepareRead(namespace, name); err != nil {
		return nil, err
	}
	c.logOperation("endpoints", namespace, "service", name)

	if _, err := c.getService(ctx, namespace, name); err != nil {
		return nil, err
	}
	return c.serviceEndpoints(ctx, namespace, name)
}

func (c *kubernetesClient) serviceEndpoints(ctx context.Context, namespace, name string) (*ServiceEndpoints, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	slices, err := c.clientset.DiscoveryV1().EndpointSlices(namespace).List(ctx, metav1.ListOptions{
		LabelSelector: discoveryv1.LabelServiceName + "=" + name,
	})
	if err != nil {
		return nil, newClusterAPIError("list", "endpointslices", namespace, name, err)
	}

	out := &ServiceEndpoints{
		Service:   name,
		Namespace: namespace,
		Addresses: []EndpointAddress{},
		Ports:     []EndpointPort{},
	}
	seenPorts := map[string]bool{}
	for _, slice := range slices.Items {
		for _, p := range slice.Ports {
			if p.Port == nil {
				continue
			}
			ep := EndpointPort{Port: *p.Port}
			if p.Name != nil {
				ep.Name = *p.Name
			}
			if p.Protocol != nil {
				ep.Protocol = string(*p.Protocol)
			}
			key := ep.Name + "/" + strconv.Itoa(int(ep.Port)) + "/" + ep.Protocol
			if !seenPorts[key] {
				seenPorts[key] = true
				out.Ports = append(out.Ports, ep)
			}
		}

		for _, e := range slice.Endpoints {
			ready := e.Conditions.Ready == nil || *e.Conditions.Ready
			for _, addr := range e.Addresses {
				a := EndpointAddress{IP: addr, Ready: ready}
				if e.Hostname != nil {
					a.Hostname = *e.Hostname
				}
				if e.NodeName != nil {
					a.NodeName = *e.NodeName
				}
				if e.TargetRef != nil && e.TargetRef.Kind == "Pod" {
					a.Pod = e.TargetRef.Name
				}
				out.Addresses = append(out.Addresses, a)
				if ready {
					out.ReadyCount++
				} else {
					out.NotReady++
				}
			}
		}
	}
	return out, nil
}

// GetServiceNetworkPolicies returns the network policies whose pod selector
// matches the labels of the service.
func (c *kubernetesClient) GetServiceNetworkPolicies(ctx context.Context, namespace, name string) ([]NetworkPolicyInfo, error) {
	if err := c.prepareRead(namespace, name); err != nil {
		return nil, err
	}
	c.logOperation("network-policies", namespace, "service", name)

	svc, err := c.getService(ctx, namespace, name)
	if err != nil {
		return nil, err
	}
	return c.networkPoliciesSelecting(ctx, namespace, svc.Labels)
}

// ProbeServiceHealth sends an HTTP GET to every ready endpoint of a service.
// The service is healthy only if every probe answers 200.
func (c *kubernetesClient) ProbeServiceHealth(ctx context.Context, namespace, name string, opts HealthProbeOptions) (*ServiceHealth, error) {
	if err := c.prepareRead(namespace, name); err != nil {
		return nil, err
	}
	if opts.Path == "" {
		opts.Path = DefaultHealthCheckPath
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultHealthCheckTimeout * time.Second
	}
	c.logOperation("health", namespace, "service", name)

	if _, err := c.getService(ctx, namespace, name); err != nil {
		return nil, err
	}
	endpoints, err := c.serviceEndpoints(ctx, namespace, name)
	if err != nil {
		return nil, err
	}

	type target struct {
		ip   string
		port int32
	}
	var targets []target
	for _, addr := range endpoints.Addresses {
		if !addr.Ready {
			continue
		}
		for _, p := range endpoints.Ports {
			if opts.Port != 0 && p.Port != opts.Port {
				continue
			}
			if p.Protocol != "" && p.Protocol != string(corev1.ProtocolTCP) {
				continue
			}
			targets = append(targets, target{ip: addr.IP, port: p.Port})
		}
	}

	health := &ServiceHealth{
		Service:   name,
		Namespace: namespace,
		Path:      opts.Path,
		Checks:    make([]EndpointHealth, len(targets)),
		Total:     len(targets),
	}
	if len(targets) == 0 {
		health.Status = HealthStatusUnhealthy
		health.Reason = "no ready endpoints available"
		return health, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultHealthCheckParallel)
	for i, t := range targets {
		g.Go(func() error {
			health.Checks[i] = c.probeEndpoint(gctx, t.ip, t.port, opts)
			return nil
		})
	}
	_ = g.Wait()

	health.Status = HealthStatusHealthy
	for _, check := range health.Checks {
		if check.Healthy {
			health.Healthy++
		} else {
			health.Status = HealthStatusUnhealthy
		}
	}
	return health, nil
}

func (c *kubernetesClient) probeEndpoint(ctx context.Context, ip string, port int32, opts HealthProbeOptions) EndpointHealth {
	host := net.JoinHostPort(ip, strconv.Itoa(int(port)))
	result := EndpointHealth{
		Address: ip,
		Port:    port,
		URL:     "http://" + host + opts.Path,
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, result.URL, nil)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	result.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		result.Error = err.Error()
		return result
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	result.StatusCode = resp.StatusCode
	result.Healthy = resp.StatusCode == http.StatusOK
	return result
}

// GetServiceMetrics sums metrics-server usage over the pods the service
// selects. Pods without metrics are reported as warnings and mark the
// result as partial.
func (c *kubernetesClient) GetServiceMetrics(ctx context.Context, namespace, name string) (*ServiceMetrics, error) {
	if err := c.prepareRead(namespace, name); err != nil {
		return nil, err
	}
	if c.metrics == nil {
		return nil, fmt.Errorf("metrics API client is not configured")
	}
	c.logOperation("metrics", namespace, "service", name)

	svc, err := c.getService(ctx, namespace, name)
	if err != nil {
		return nil, err
	}
	endpoints, err := c.serviceEndpoints(ctx, namespace, name)
	if err != nil {
		return nil, err
	}
	rel, err := c.resolver.OwnedMembers(ctx, namespace, selector.KindService, name)
	if err != nil {
		return nil, err
	}

	out := &ServiceMetrics{
		Service:        name,
		Namespace:      namespace,
		Type:           string(svc.Spec.Type),
		Selector:       svc.Spec.Selector,
		Ports:          servicePorts(svc.Spec.Ports),
		ReadyEndpoints: endpoints.ReadyCount,
		PodCount:       len(rel.Members),
		Pods:           make([]PodMetrics, 0, len(rel.Members)),
	}

	results := make([]*PodMetrics, len(rel.Members))
	errs := make([]error, len(rel.Members))
	g := new(errgroup.Group)
	g.SetLimit(DefaultHealthCheckParallel)
	for i, m := range rel.Members {
		g.Go(func() error {
			results[i], errs[i] = c.GetPodMetrics(ctx, namespace, m.Name)
			return nil
		})
	}
	_ = g.Wait()

	for i, m := range rel.Members {
		if errs[i] != nil {
			out.Partial = true
			out.Warnings = append(out.Warnings, fmt.Sprintf("pod %s: %v", m.Name, errs[i]))
			continue
		}
		out.Pods = append(out.Pods, *results[i])
		out.TotalCPUMilli += results[i].TotalCPUMilli
		out.TotalMemoryBytes += results[i].TotalMemoryBytes
	}
	return out, nil
}
