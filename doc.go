// Package natsuzora implements a small, safety-first, display-only
// template language for generating static HTML.
//
// A template source string is parsed once into an immutable syntax
// tree and rendered any number of times against a JSON-shaped data
// value. Rendering never mutates state, performs I/O of its own
// (apart from loading partials through a *Loader), or invokes
// arbitrary user code: there are no user-defined functions,
// expressions or filters, no arithmetic, and no format specifiers.
//
// A tiny example:
//
//	tpl, err := natsuzora.ParseString("<string>", "Hello, {[ name ]}!")
//	if err != nil {
//	    panic(err)
//	}
//	out, err := tpl.Render(map[string]any{"name": "World"})
//	if err != nil {
//	    panic(err)
//	}
//	fmt.Println(out) // Output: Hello, World!
//
// Caveats
//
//   - Parallelism: a parsed *Template is safe to share across
//     goroutines, but a *Loader is not — distinct concurrent renders
//     that use partials must use distinct Loader instances, or
//     synchronize access to a shared one externally.
//   - There is no streaming output; Render always produces a whole
//     string.
package natsuzora
