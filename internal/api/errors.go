package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Error bodies are always {"error": string}, with {"error", "details"} for
// validation failures where details names every failing field. Internals are
// logged server-side and never leak into responses.

// fieldValidator backs ad-hoc single-value checks (e.g. a URL inside a
// patch). Request-body structs go through gin's binding engine instead.
var fieldValidator = validator.New()

// Details are keyed by the JSON field name so clients can match them to
// request fields. Go field names diverge from the wire names on initialisms
// (ExternalSubjectID vs externalSubjectId), so the name must come from the
// json tag, not the field name.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonTagName)
	}
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.Join(strings.Fields(fe.Param()), ", "))
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

// validationDetails turns a binding error into a per-field detail map, or
// nil when the error is not field-level (e.g. malformed JSON).
func validationDetails(err error) map[string]string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}
	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = constraintMessage(fe)
	}
	return details
}

// bindJSON parses and validates the request body. On failure it writes the
// 400 response and returns false.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if details := validationDetails(err); details != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Validation error", "details": details})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		}
		return false
	}
	return true
}

// decodePatch parses a PATCH body into an explicit patch struct, rejecting
// unknown fields rather than silently dropping them.
func decodePatch(c *gin.Context, dst any) bool {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if field, ok := unknownField(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Validation error",
				"details": map[string]string{field: "unknown field"},
			})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	return true
}

// unknownField extracts the field name from encoding/json's
// `json: unknown field "x"` error.
func unknownField(err error) (string, bool) {
	msg := err.Error()
	const marker = `unknown field "`
	i := strings.Index(msg, marker)
	if i < 0 {
		return "", false
	}
	rest := msg[i+len(marker):]
	j := strings.Index(rest, `"`)
	if j < 0 {
		return "", false
	}
	return rest[:j], true
}

// parseIDParam parses the :id path parameter. A non-numeric id gets a 400
// naming the resource; a numeric id that matches no row (including zero or
// negative) falls through to the caller's not-found path.
func parseIDParam(c *gin.Context, resource string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + resource + " ID"})
		return 0, false
	}
	return id, true
}
