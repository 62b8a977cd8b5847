package tools

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-k8s-workloads/internal/k8s"
)

// ContainerParams declares the arguments describing the single container of
// a created workload.
func ContainerParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("image",
			mcp.Required(),
			mcp.Description("Container image (e.g. 'nginx:1.27')"),
		),
		mcp.WithString("containerName",
			mcp.Description("Container name (default: the resource name)"),
		),
		mcp.WithNumber("containerPort",
			mcp.Description("Container port to expose (default: 80)"),
		),
		mcp.WithArray("command",
			mcp.Description("Entrypoint override as an array of strings"),
			mcp.WithStringItems(),
		),
		mcp.WithArray("args",
			mcp.Description("Arguments to the entrypoint as an array of strings"),
			mcp.WithStringItems(),
		),
		mcp.WithObject("env",
			mcp.Description("Environment variables as a map of name to value"),
		),
		mcp.WithString("cpuRequest", mcp.Description("CPU request (e.g. '100m')")),
		mcp.WithString("cpuLimit", mcp.Description("CPU limit (e.g. '500m')")),
		mcp.WithString("memoryRequest", mcp.Description("Memory request (e.g. '128Mi')")),
		mcp.WithString("memoryLimit", mcp.Description("Memory limit (e.g. '256Mi')")),
		mcp.WithBoolean("defaultResources",
			mcp.Description("Fill unset requests and limits with defaults (default: false)"),
		),
		mcp.WithString("livenessPath", mcp.Description("HTTP path of the liveness probe")),
		mcp.WithString("readinessPath", mcp.Description("HTTP path of the readiness probe")),
		mcp.WithNumber("probePort", mcp.Description("Port of the HTTP probes (default: the container port)")),
		mcp.WithNumber("initialDelaySeconds", mcp.Description("Initial delay of the HTTP probes")),
		mcp.WithNumber("periodSeconds", mcp.Description("Period of the HTTP probes")),
	}
}

// ParseContainer reads the arguments declared by ContainerParams.
func ParseContainer(args map[string]interface{}) (k8s.ContainerOptions, error) {
	var c k8s.ContainerOptions
	var err error

	if c.Image, err = RequireString(args, "image"); err != nil {
		return c, err
	}
	c.ContainerName = OptionalString(args, "containerName")

	port, err := OptionalInt32(args, "containerPort")
	if err != nil {
		return c, err
	}
	if port != nil {
		c.ContainerPort = *port
	}

	if c.Command, err = StringSlice(args, "command"); err != nil {
		return c, err
	}
	if c.Args, err = StringSlice(args, "args"); err != nil {
		return c, err
	}
	if c.Env, err = StringMap(args, "env"); err != nil {
		return c, err
	}

	c.Resources = k8s.ResourceOptions{
		CPURequest:    OptionalString(args, "cpuRequest"),
		CPULimit:      OptionalString(args, "cpuLimit"),
		MemoryRequest: OptionalString(args, "memoryRequest"),
		MemoryLimit:   OptionalString(args, "memoryLimit"),
	}
	if c.DefaultResources, err = OptionalBool(args, "defaultResources", false); err != nil {
		return c, err
	}

	liveness := OptionalString(args, "livenessPath")
	readiness := OptionalString(args, "readinessPath")
	if liveness != "" || readiness != "" {
		probes := &k8s.HTTPProbeOptions{LivenessPath: liveness, ReadinessPath: readiness}
		for key, dst := range map[string]*int32{
			"probePort":           &probes.Port,
			"initialDelaySeconds": &probes.InitialDelaySeconds,
			"periodSeconds":       &probes.PeriodSeconds,
		} {
			v, err := OptionalInt32(args, key)
			if err != nil {
				return c, err
			}
			if v != nil {
				*dst = *v
			}
		}
		c.Probes = probes
	}

	return c, nil
}

// UpdateParams declares the arguments of deployment and replica set updates.
func UpdateParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("image", mcp.Description("New container image")),
		mcp.WithString("containerName", mcp.Description("Container to update (default: the first)")),
		mcp.WithNumber("replicas", mcp.Description("New replica count")),
		mcp.WithObject("env", mcp.Description("Environment variables to set, as a map of name to value")),
		mcp.WithObject("labels", mcp.Description("Labels to merge into the resource")),
	}
}

// ParseUpdate reads the arguments declared by UpdateParams. At least one
// change is required.
func ParseUpdate(args map[string]interface{}) (k8s.WorkloadUpdateOptions, error) {
	opts := k8s.WorkloadUpdateOptions{
		Image:         OptionalString(args, "image"),
		ContainerName: OptionalString(args, "containerName"),
	}
	var err error
	if opts.Replicas, err = OptionalInt32(args, "replicas"); err != nil {
		return opts, err
	}
	if opts.Env, err = StringMap(args, "env"); err != nil {
		return opts, err
	}
	if opts.Labels, err = StringMap(args, "labels"); err != nil {
		return opts, err
	}

	if opts.Image == "" && opts.Replicas == nil && len(opts.Env) == 0 && len(opts.Labels) == 0 {
		return opts, k8s.NewValidationError("update", "at least one of image, replicas, env or labels is required")
	}
	return opts, nil
}
