// Package common holds the plumbing shared by every directory tool: argument
// readers that enforce the validation rules, CallRemote for normalizing the
// outcome of a single Directory API call, InstrumentedToolHandler which
// sequences credential lookup, validation, client construction, and the
// remote work, and the result builders that shape API objects into tool output.
package common
