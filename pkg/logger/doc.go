// Package logger builds *slog.Logger values with functional options and
// keeps attribute names consistent across packages.
//
// New selects a text or JSON handler, applies the level and static
// attributes, and wraps the handler so records logged with a context carry:
//
//   - attributes stored with ContextWith, e.g. the form session id;
//   - attributes produced by ContextExtractor funcs, e.g. a request id.
//
// Attribute helpers in attr.go (FormID, Field, Ruleset, Outcome, Error, ...)
// fix the key names. Error and Errors return an empty attribute for nil
// errors, so callers need no nil check.
//
// Usage:
//
//	log := logger.New(
//		logger.WithDevelopment("formserver"),
//		logger.WithContextExtractors(formhttp.RequestIDExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	ctx = logger.ContextWith(ctx, logger.FormID(f.ID()))
//	log.InfoContext(ctx, "Validation settled",
//		logger.Field("username"),
//		logger.Outcome(form.OutcomeFailed),
//	)
//
// NewFromConfig builds the same logger from an env-loaded Config. Discard
// returns a logger for libraries that were not given one.
package logger
