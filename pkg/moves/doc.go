// Package moves defines the move record format and the sources movesets are
// loaded from.
//
// A moveset is a JSON (or YAML) object keyed by move name:
//
//	{
//	  "Guard": {"children": ["Pass"], "type": "Guard", "area": "Ground"},
//	  "Pass":  {"parents": ["Guard"], "type": ["Pass"]}
//	}
//
// Decoding is lenient because movesets are written by hand: sequences may be
// an array, a single string, "" or null, and categorical fields may be a
// string or a list of strings (joined with ","). Unknown keys are ignored.
//
// # Sources
//
//   - [FileSource]: a local .json, .yaml or .yml file
//   - [HTTPSource]: a remote document fetched with [httputil.Client]
//   - [MongoSource]: one document per move in a MongoDB collection
//
// Use [Load] rather than calling Source.Load directly: it validates move
// names, codes every failure and reports to the observability hooks.
package moves
