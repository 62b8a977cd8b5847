// Package output formats and bounds MCP tool responses.
//
// Tool results are rendered as indented JSON or YAML ([Format]). List
// results are narrowed with a glob [NameFilter] and capped with [Truncate],
// which reports a [TruncationWarning] when items were dropped. Log output is
// capped with [TruncateText], keeping the most recent lines.
//
//	filter, _ := output.NewNameFilter("web-*")
//	pods = output.FilterByName(pods, filter, func(p k8s.PodSummary) string { return p.Name })
//	pods, warning := output.Truncate(pods, output.EffectiveLimit(requested, cfg.MaxItems))
package output
