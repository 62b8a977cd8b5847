package k8s

import (
	"fmt"
	"strconv"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
)

func timePtr(t *metav1.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

func ownerReferences(refs []metav1.OwnerReference) []OwnerReferenceInfo {
	if len(refs) == 0 {
		return nil
	}
	out := make([]OwnerReferenceInfo, 0, len(refs))
	for _, r := range refs {
		out = append(out, OwnerReferenceInfo{
			Kind:       r.Kind,
			Name:       r.Name,
			Controller: r.Controller != nil && *r.Controller,
		})
	}
	return out
}

func resourceList(list corev1.ResourceList) map[string]string {
	if len(list) == 0 {
		return nil
	}
	out := make(map[string]string, len(list))
	for name, qty := range list {
		out[string(name)] = qty.String()
	}
	return out
}

func containerInfo(c corev1.Container) ContainerInfo {
	info := ContainerInfo{
		Name:    c.Name,
		Image:   c.Image,
		Command: c.Command,
		Args:    c.Args,
		Resources: ResourceRequirementsInfo{
			Requests: resourceList(c.Resources.Requests),
			Limits:   resourceList(c.Resources.Limits),
		},
	}
	for _, p := range c.Ports {
		info.Ports = append(info.Ports, ContainerPortInfo{
			Name:          p.Name,
			ContainerPort: p.ContainerPort,
			Protocol:      string(p.Protocol),
		})
	}
	for _, e := range c.Env {
		info.Env = append(info.Env, envVarInfo(e))
	}
	return info
}

func envVarInfo(e corev1.EnvVar) EnvVarInfo {
	info := EnvVarInfo{Name: e.Name, Value: e.Value}
	if e.ValueFrom == nil {
		return info
	}
	switch {
	case e.ValueFrom.SecretKeyRef != nil:
		info.ValueFrom = fmt.Sprintf("secret:%s/%s", e.ValueFrom.SecretKeyRef.Name, e.ValueFrom.SecretKeyRef.Key)
	case e.ValueFrom.ConfigMapKeyRef != nil:
		info.ValueFrom = fmt.Sprintf("configmap:%s/%s", e.ValueFrom.ConfigMapKeyRef.Name, e.ValueFrom.ConfigMapKeyRef.Key)
	case e.ValueFrom.FieldRef != nil:
		info.ValueFrom = "field:" + e.ValueFrom.FieldRef.FieldPath
	case e.ValueFrom.ResourceFieldRef != nil:
		info.ValueFrom = "resource:" + e.ValueFrom.ResourceFieldRef.Resource
	}
	return info
}

func containerInfos(containers []corev1.Container) []ContainerInfo {
	out := make([]ContainerInfo, 0, len(containers))
	for _, c := range containers {
		out = append(out, containerInfo(c))
	}
	return out
}

func containerStatusInfo(s corev1.ContainerStatus) ContainerStatusInfo {
	info := ContainerStatusInfo{
		Name:         s.Name,
		Image:        s.Image,
		Ready:        s.Ready,
		RestartCount: s.RestartCount,
	}
	switch {
	case s.State.Running != nil:
		info.State = "running"
		info.StartedAt = timePtr(&s.State.Running.StartedAt)
	case s.State.Waiting != nil:
		info.State = "waiting"
		info.Reason = s.State.Waiting.Reason
		info.Message = s.State.Waiting.Message
	case s.State.Terminated != nil:
		info.State = "terminated"
		info.Reason = s.State.Terminated.Reason
		info.Message = s.State.Terminated.Message
		info.StartedAt = timePtr(&s.State.Terminated.StartedAt)
	default:
		info.State = "unknown"
	}
	return info
}

func podConditions(conds []corev1.PodCondition) []ConditionInfo {
	out := make([]ConditionInfo, 0, len(conds))
	for _, c := range conds {
		out = append(out, ConditionInfo{
			Type:               string(c.Type),
			Status:             string(c.Status),
			Reason:             c.Reason,
			Message:            c.Message,
			LastTransitionTime: timePtr(&c.LastTransitionTime),
		})
	}
	return out
}

func deploymentConditions(conds []appsv1.DeploymentCondition) []ConditionInfo {
	out := make([]ConditionInfo, 0, len(conds))
	for _, c := range conds {
		out = append(out, ConditionInfo{
			Type:               string(c.Type),
			Status:             string(c.Status),
			Reason:             c.Reason,
			Message:            c.Message,
			LastTransitionTime: timePtr(&c.LastTransitionTime),
		})
	}
	return out
}

func replicaSetConditions(conds []appsv1.ReplicaSetCondition) []ConditionInfo {
	out := make([]ConditionInfo, 0, len(conds))
	for _, c := range conds {
		out = append(out, ConditionInfo{
			Type:               string(c.Type),
			Status:             string(c.Status),
			Reason:             c.Reason,
			Message:            c.Message,
			LastTransitionTime: timePtr(&c.LastTransitionTime),
		})
	}
	return out
}

func podSummary(p *corev1.Pod) PodSummary {
	var ready int
	var restarts int32
	for _, s := range p.Status.ContainerStatuses {
		if s.Ready {
			ready++
		}
		restarts += s.RestartCount
	}
	return PodSummary{
		Name:              p.Name,
		Namespace:         p.Namespace,
		Phase:             string(p.Status.Phase),
		Ready:             fmt.Sprintf("%d/%d", ready, len(p.Spec.Containers)),
		Restarts:          restarts,
		PodIP:             p.Status.PodIP,
		NodeName:          p.Spec.NodeName,
		Labels:            p.Labels,
		CreationTimestamp: p.CreationTimestamp.Time,
	}
}

func podInfo(p *corev1.Pod) *PodInfo {
	info := &PodInfo{
		Name:              p.Name,
		Namespace:         p.Namespace,
		Phase:             string(p.Status.Phase),
		Reason:            p.Status.Reason,
		Message:           p.Status.Message,
		PodIP:             p.Status.PodIP,
		HostIP:            p.Status.HostIP,
		NodeName:          p.Spec.NodeName,
		ServiceAccount:    p.Spec.ServiceAccountName,
		QOSClass:          string(p.Status.QOSClass),
		RestartPolicy:     string(p.Spec.RestartPolicy),
		Labels:            p.Labels,
		Annotations:       p.Annotations,
		NodeSelector:      p.Spec.NodeSelector,
		OwnerReferences:   ownerReferences(p.OwnerReferences),
		Containers:        containerInfos(p.Spec.Containers),
		Conditions:        podConditions(p.Status.Conditions),
		StartTime:         timePtr(p.Status.StartTime),
		CreationTimestamp: p.CreationTimestamp.Time,
	}
	for _, ip := range p.Status.PodIPs {
		info.PodIPs = append(info.PodIPs, ip.IP)
	}
	for _, s := range p.Status.ContainerStatuses {
		info.ContainerStatuses = append(info.ContainerStatuses, containerStatusInfo(s))
	}
	return info
}

func intOrStringPtr(v *intstr.IntOrString) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func parseRevision(annotations map[string]string) int64 {
	v, ok := annotations[RevisionAnnotation]
	if !ok {
		return 0
	}
	rev, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return rev
}

func deploymentInfo(d *appsv1.Deployment) *DeploymentInfo {
	info := &DeploymentInfo{
		Name:                d.Name,
		Namespace:           d.Namespace,
		ReadyReplicas:       d.Status.ReadyReplicas,
		UpdatedReplicas:     d.Status.UpdatedReplicas,
		AvailableReplicas:   d.Status.AvailableReplicas,
		UnavailableReplicas: d.Status.UnavailableReplicas,
		Strategy:            string(d.Spec.Strategy.Type),
		Paused:              d.Spec.Paused,
		Revision:            parseRevision(d.Annotations),
		Labels:              d.Labels,
		Containers:          containerInfos(d.Spec.Template.Spec.Containers),
		Conditions:          deploymentConditions(d.Status.Conditions),
		CreationTimestamp:   d.CreationTimestamp.Time,
	}
	if d.Spec.Replicas != nil {
		info.Replicas = *d.Spec.Replicas
	}
	if d.Spec.Selector != nil {
		info.Selector = d.Spec.Selector.MatchLabels
	}
	if ru := d.Spec.Strategy.RollingUpdate; ru != nil {
		info.MaxSurge = intOrStringPtr(ru.MaxSurge)
		info.MaxUnavailable = intOrStringPtr(ru.MaxUnavailable)
	}
	return info
}

func replicaSetInfo(rs *appsv1.ReplicaSet) *ReplicaSetInfo {
	info := &ReplicaSetInfo{
		Name:                 rs.Name,
		Namespace:            rs.Namespace,
		ReadyReplicas:        rs.Status.ReadyReplicas,
		AvailableReplicas:    rs.Status.AvailableReplicas,
		FullyLabeledReplicas: rs.Status.FullyLabeledReplicas,
		Revision:             parseRevision(rs.Annotations),
		Labels:               rs.Labels,
		Containers:           containerInfos(rs.Spec.Template.Spec.Containers),
		Conditions:           replicaSetConditions(rs.Status.Conditions),
		CreationTimestamp:    rs.CreationTimestamp.Time,
	}
	if rs.Spec.Replicas != nil {
		info.Replicas = *rs.Spec.Replicas
	}
	if rs.Spec.Selector != nil {
		info.Selector = rs.Spec.Selector.MatchLabels
	}
	if owner := metav1.GetControllerOf(rs); owner != nil {
		info.Owner = owner.Kind + "/" + owner.Name
	}
	return info
}

func servicePorts(ports []corev1.ServicePort) []ServicePortInfo {
	out := make([]ServicePortInfo, 0, len(ports))
	for _, p := range ports {
		out = append(out, ServicePortInfo{
			Name:       p.Name,
			Protocol:   string(p.Protocol),
			Port:       p.Port,
			TargetPort: p.TargetPort.String(),
			NodePort:   p.NodePort,
		})
	}
	return out
}

func serviceInfo(s *corev1.Service) *ServiceInfo {
	info := &ServiceInfo{
		Name:              s.Name,
		Namespace:         s.Namespace,
		Type:              string(s.Spec.Type),
		ClusterIP:         s.Spec.ClusterIP,
		ClusterIPs:        s.Spec.ClusterIPs,
		ExternalIPs:       s.Spec.ExternalIPs,
		ExternalName:      s.Spec.ExternalName,
		SessionAffinity:   string(s.Spec.SessionAffinity),
		Ports:             servicePorts(s.Spec.Ports),
		Selector:          s.Spec.Selector,
		Labels:            s.Labels,
		Annotations:       s.Annotations,
		CreationTimestamp: s.CreationTimestamp.Time,
	}
	for _, ing := range s.Status.LoadBalancer.Ingress {
		if ing.IP != "" {
			info.LoadBalancer = append(info.LoadBalancer, ing.IP)
		} else if ing.Hostname != "" {
			info.LoadBalancer = append(info.LoadBalancer, ing.Hostname)
		}
	}
	return info
}

func serviceAccountInfo(sa *corev1.ServiceAccount) *ServiceAccountInfo {
	info := &ServiceAccountInfo{
		Name:                         sa.Name,
		Namespace:                    sa.Namespace,
		AutomountServiceAccountToken: sa.AutomountServiceAccountToken,
		Labels:                       sa.Labels,
		Annotations:                  sa.Annotations,
		CreationTimestamp:            sa.CreationTimestamp.Time,
	}
	for _, s := range sa.Secrets {
		info.Secrets = append(info.Secrets, s.Name)
	}
	for _, s := range sa.ImagePullSecrets {
		info.ImagePullSecrets = append(info.ImagePullSecrets, s.Name)
	}
	return info
}

func eventInfo(e *corev1.Event) EventInfo {
	info := EventInfo{
		Type:           e.Type,
		Reason:         e.Reason,
		Message:        e.Message,
		Count:          e.Count,
		Object:         e.InvolvedObject.Kind + "/" + e.InvolvedObject.Name,
		Source:         e.Source.Component,
		FirstTimestamp: timePtr(&e.FirstTimestamp),
		LastTimestamp:  timePtr(&e.LastTimestamp),
	}
	if info.Source == "" {
		info.Source = e.ReportingController
	}
	if info.LastTimestamp == nil && !e.EventTime.IsZero() {
		t := e.EventTime.Time
		info.LastTimestamp = &t
	}
	return info
}

func probeInfo(p *corev1.Probe) *ProbeInfo {
	if p == nil {
		return nil
	}
	info := &ProbeInfo{
		InitialDelaySeconds: p.InitialDelaySeconds,
		PeriodSeconds:       p.PeriodSeconds,
		TimeoutSeconds:      p.TimeoutSeconds,
		SuccessThreshold:    p.SuccessThreshold,
		FailureThreshold:    p.FailureThreshold,
	}
	switch {
	case p.HTTPGet != nil:
		info.Handler = "httpGet"
		info.Path = p.HTTPGet.Path
		info.Port = p.HTTPGet.Port.String()
		info.Scheme = string(p.HTTPGet.Scheme)
	case p.TCPSocket != nil:
		info.Handler = "tcpSocket"
		info.Port = p.TCPSocket.Port.String()
	case p.Exec != nil:
		info.Handler = "exec"
		info.Command = p.Exec.Command
	case p.GRPC != nil:
		info.Handler = "grpc"
		info.Port = strconv.Itoa(int(p.GRPC.Port))
	}
	return info
}
