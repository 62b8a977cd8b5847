package instrumentation

import "strings"

// NamespaceClass groups namespaces for metric labels so that clusters with
// many namespaces do not explode label cardinality.
type NamespaceClass string

const (
	// NamespaceClassAll is used for cluster-wide operations (empty namespace).
	NamespaceClassAll NamespaceClass = "all"

	// NamespaceClassSystem covers kube-system, kube-public, kube-node-lease
	// and any other kube-* namespace.
	NamespaceClassSystem NamespaceClass = "system"

	// NamespaceClassDefault is the default namespace.
	NamespaceClassDefault NamespaceClass = "default"

	// NamespaceClassWorkload is every other namespace.
	NamespaceClassWorkload NamespaceClass = "workload"
)

// ClassifyNamespace maps a namespace to its NamespaceClass.
//
//	| Namespace        | Class    |
//	|------------------|----------|
//	| ""               | all      |
//	| default          | default  |
//	| kube-*           | system   |
//	| anything else    | workload |
func ClassifyNamespace(namespace string) NamespaceClass {
	ns := strings.ToLower(strings.TrimSpace(namespace))
	switch {
	case ns == "":
		return NamespaceClassAll
	case ns == "default":
		return NamespaceClassDefault
	case strings.HasPrefix(ns, "kube-"):
		return NamespaceClassSystem
	default:
		return NamespaceClassWorkload
	}
}
