/*
Package server implements msgpack IPC for prefix suggestions.

Editor clients keep a pipe open and exchange binary msgpack frames over
stdin/stdout. Messages are processed synchronously and every response
carries the request ID, so clients can pipeline requests and match
answers by ID.

# IPC

Completion requests use this structure:

	{"id": "req_001", "p": "ame", "l": 24}

The server responds with suggestions ranked by position:

	{"id": "req_001", "s": [{"w": "amenity", "r": 1}, {"w": "america", "r": 2}], "c": 2, "t": 145}

Setting "c" on a request makes the casing of the typed prefix carry
into the suggestions:

	{"id": "req_002", "p": "Ame", "c": true}

Command requests swap the prefix for an action:

	{"id": "cmd_001", "a": "rebuild"}
	{"id": "cmd_002", "a": "stats"}
	{"id": "cmd_003", "a": "ping"}

"rebuild" re-reads the dictionary source behind the index, "stats"
reports word and cache counters, "ping" answers ok. Responses include
status information and error details when an op fails.

msgpack keeps message sizes roughly 30 to 50% below JSON and the binary
framing parses faster than JSON lines, which matters when an editor
sends a request per keystroke.
*/
package server

// Request is the single message shape clients send. Plain completion
// requests carry a prefix; command requests carry an action instead.
type Request struct {
	ID          string `msgpack:"id"`
	Prefix      string `msgpack:"p,omitempty"`
	Limit       int    `msgpack:"l,omitempty"`
	RespectCase bool   `msgpack:"c,omitempty"`
	Action      string `msgpack:"a,omitempty"`
}

// Suggestion is a single ranked completion.
type Suggestion struct {
	Word string `msgpack:"w"`
	Rank uint16 `msgpack:"r"`
}

// CompletionResponse answers a completion request. TimeTaken is the
// elapsed lookup time in microseconds.
type CompletionResponse struct {
	ID          string       `msgpack:"id"`
	Suggestions []Suggestion `msgpack:"s"`
	Count       int          `msgpack:"c"`
	TimeTaken   int64        `msgpack:"t"`
}

// CommandResponse answers action requests and doubles as the ready
// banner emitted when the loop starts.
type CommandResponse struct {
	ID    string           `msgpack:"id"`
	OK    bool             `msgpack:"ok"`
	Error string           `msgpack:"e,omitempty"`
	Stats map[string]int64 `msgpack:"st,omitempty"`
}

// ErrorResponse reports malformed or rejected requests.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
