package service

import (
	"fmt"
	"strconv"

	"github.com/giantswarm/mcp-k8s-workloads/internal/k8s"
)

// parsePorts reads the ports argument. Each item is either a port number or
// an object; it returns nil when the argument is absent.
func parsePorts(args map[string]interface{}) ([]k8s.ServicePortOptions, error) {
	raw, ok := args["ports"]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, k8s.NewValidationError("ports", "must be an array")
	}

	out := make([]k8s.ServicePortOptions, 0, len(items))
	for i, item := range items {
		field := fmt.Sprintf("ports[%d]", i)

		switch v := item.(type) {
		case float64:
			port, err := portNumber(field, v)
			if err != nil {
				return nil, err
			}
			out = append(out, k8s.ServicePortOptions{Port: port})
		case map[string]interface{}:
			p, err := portObject(field, v)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		default:
			return nil, k8s.NewValidationError(field, "must be a port number or an object")
		}
	}
	return out, nil
}

func portObject(field string, m map[string]interface{}) (k8s.ServicePortOptions, error) {
	var p k8s.ServicePortOptions

	rawPort, ok := m["port"].(float64)
	if !ok {
		return p, k8s.NewValidationError(field+".port", "is required")
	}
	port, err := portNumber(field+".port", rawPort)
	if err != nil {
		return p, err
	}
	p.Port = port

	if name, ok := m["name"].(string); ok {
		p.Name = name
	}
	if protocol, ok := m["protocol"].(string); ok {
		p.Protocol = protocol
	}
	switch target := m["targetPort"].(type) {
	case nil:
	case string:
		p.TargetPort = target
	case float64:
		tp, err := portNumber(field+".targetPort", target)
		if err != nil {
			return p, err
		}
		p.TargetPort = strconv.Itoa(int(tp))
	default:
		return p, k8s.NewValidationError(field+".targetPort", "must be a port number or name")
	}
	if nodePort, ok := m["nodePort"].(float64); ok {
		np, err := portNumber(field+".nodePort", nodePort)
		if err != nil {
			return p, err
		}
		p.NodePort = np
	}
	return p, nil
}

func portNumber(field string, v float64) (int32, error) {
	if v != float64(int32(v)) || v < 1 || v > 65535 {
		return 0, k8s.NewValidationError(field, fmt.Sprintf("%v is not a valid port", v))
	}
	return int32(v), nil
}
