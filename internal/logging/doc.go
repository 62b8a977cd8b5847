// Package logging provides the structured logging helpers shared by the
// server, the tool handlers and the Kubernetes client.
//
// Loggers are plain *slog.Logger values built with NewLogger. The Kubernetes
// client consumes the narrower Logger interface, satisfied by SlogAdapter.
//
// Attribute helpers keep key names consistent:
//
//	logger := logging.WithInvocation(slog.Default(), "list_owned_pods", id)
//	logger.Info("resolved owned pods",
//	    logging.Namespace("default"),
//	    logging.OwnerKind("Deployment"),
//	    logging.ResourceName("web"))
//
// Errors from the API server or from endpoint probes may carry pod and node
// IPs; log them with SanitizedErr.
package logging
