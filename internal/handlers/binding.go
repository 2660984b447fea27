package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

var errEmptyBody = errors.New("request body is empty")

// BindNestedOrFlat binds the JSON request body to obj.
// A body of the form {"<key>": {...}} binds the nested object; any other
// object binds as a whole. Clients may send either shape.
func BindNestedOrFlat(c *gin.Context, key string, obj interface{}) error {
	var bodyBytes []byte
	if c.Request.Body != nil {
		bodyBytes, _ = io.ReadAll(c.Request.Body)
	}
	// Restore body for later reads
	c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	if len(bytes.TrimSpace(bodyBytes)) == 0 {
		return invalidRequest(errEmptyBody)
	}

	var nestedMap map[string]json.RawMessage
	if err := json.Unmarshal(bodyBytes, &nestedMap); err == nil {
		if val, ok := nestedMap[key]; ok {
			if err := json.Unmarshal(val, obj); err != nil {
				return invalidRequest(err)
			}
			return nil
		}
	}

	if err := json.Unmarshal(bodyBytes, obj); err != nil {
		return invalidRequest(err)
	}
	return nil
}
