// Package errors provides coded, terminal-friendly errors for the
// prerender CLI and configuration loader.
//
// Each error has a unique code (e.g., "E100") that maps to a short
// message, a longer explanation and an optional fix suggestion. Errors
// raised while reading an input file can carry its location, and Format
// then shows the surrounding lines:
//
//	err := errors.New(errors.CodeInvalidTree).
//	    WithOffset("page.json", data, syntaxErr.Offset).
//	    Wrap(syntaxErr)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E130: Invalid tree document
//	//
//	//   page.json:3:14
//	//
//	//        1 │ {
//	//        2 │   "type": "div",
//	//   →    3 │   "children": [}
//	//          │              ^
//	//
//	//   The tree document is not valid JSON or does not describe a component tree.
//
// # Codes
//
//   - E100-E109: configuration
//   - E110-E119: rendering
//   - E120-E129: snapshot storage
//   - E130-E139: input documents
//   - E140-E149: command line and server
package errors
