// Package reqval validates and type-converts structured request input
// against declarative schemas built in code: flat parameters from the
// query string, form body, headers or path, and arbitrarily nested JSON
// bodies.
//
// Validation is exhaustive by design: every declared parameter, every
// sibling key and every rule in a chain is evaluated, and each failure is
// returned as a plain typed error value with the context needed for a
// precise message. The engine never reports failures through panics and
// returns a cleaned value even when errors are present.
//
// # Architecture
//
// Rules are small immutable values implementing the Rule interface; a
// CompositeRule evaluates them in order without short-circuiting. Param
// binds a name, source, target type, required/default policy and rules
// for one flat value. JsonParam is a recursive schema node for nested
// bodies, producing one JsonError per structural level that failed,
// tagged with its full path from the root. All schema objects are
// stateless after construction and safe to share across concurrent
// requests.
//
// # Flat parameters
//
//	page := reqval.MustParam("page", reqval.Query, reqval.TypeInt,
//		reqval.WithDefault(1),
//		reqval.WithRules(reqval.Min(1, true)),
//	)
//
//	value, err := page.Resolve(r.URL.Query().Get("page"), r.URL.Query().Has("page"))
//
// # Nested bodies
//
//	schema := reqval.JsonObject(
//		reqval.Key("street", reqval.JsonLeaf(reqval.Enum("Jakuba Kolasa"))),
//		reqval.Key("meta", reqval.JsonObject(
//			reqval.Key("count", reqval.JsonLeaf(reqval.Min(0, true), reqval.Max(99, true))),
//		)),
//	)
//
//	cleaned, errs := schema.Validate(body)
//	for _, levelErr := range errs {
//		// levelErr.Depth is the level's path, e.g. ["root", "meta"]
//	}
//
// # Error Handling
//
// Failures are data, not control flow: RequiredValueError,
// TypeConversionError, RulesError and the per-rule violation types all
// implement error and carry their parameters as exported fields. Only
// schema-definition misuse is fatal: NewParam returns a WrongUsageError
// and MustParam panics, at definition time rather than per request.
//
// HTTP wiring stays outside this package: the caller extracts raw values,
// invokes Resolve/Validate, and decides how to report the collected
// errors (FormatErrors provides a reference rendering).
package reqval
