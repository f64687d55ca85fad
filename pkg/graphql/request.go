package graphql

// Request is the wire packet for one GraphQL operation: the query document
// plus its variables. Built per call and not retained afterwards.
type Request struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// NewRequest builds a packet, normalizing nil variables to an empty map so
// the encoded body always carries a variables object.
func NewRequest(query string, variables map[string]interface{}) *Request {
	if variables == nil {
		variables = map[string]interface{}{}
	}
	return &Request{
		Query:     query,
		Variables: variables,
	}
}
