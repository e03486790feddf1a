// Package ruleset loads form definitions from YAML or JSON files.
//
// Each file holds one rule set: its name (defaulting to the file name), the
// per-field constraints understood by package constraint, optional default
// values and the full_messages flag. A customAsync rule written as
// {resolver: name, ...} is bound at load time to a ResolverFactory registered
// with WithResolver; any other customAsync value is kept as a plain payload.
//
//	set, err := ruleset.Load(os.DirFS("rules"),
//		ruleset.WithResolver("unique", resolver.Factory(checker)),
//	)
//	rs, _ := set.Get("signup")
//	f, err := rs.NewForm(form.WithLogger(log))
package ruleset
