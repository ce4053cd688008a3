package log

import (
	"fmt"
	"regexp"
)

const redactedValue = "[redacted]"

// ObscureArguments obscure/mask/redact values for a set of trailing arguments
func ObscureArguments(redactedFields []string, args ...interface{}) []interface{} {
	var obscuredParams []interface{}
	for _, arg := range args {
		obscuredParams = append(obscuredParams, obscureParams(fmt.Sprintf("%s", arg), redactedFields))
	}
	return obscuredParams
}

// obscureParams obscure/mask/redact a set of values in a json or form encoded string
func obscureParams(str string, sensitiveParams []string) string {
	for _, param := range sensitiveParams {
		str = obscureParam(str, param)
	}
	return str
}

// obscureParam obscure/mask/redact a value in a json or form encoded string
func obscureParam(str string, param string) string {
	quoted := regexp.QuoteMeta(param)

	rJSON := regexp.MustCompile(`"` + quoted + `"\s*:\s*"(?:[^"\\]|\\.)*"`)
	str = rJSON.ReplaceAllString(str, `"`+param+`":"`+redactedValue+`"`)

	rForm := regexp.MustCompile(`(^|[&?])` + quoted + `=[^&\s]*`)
	return rForm.ReplaceAllString(str, `${1}`+param+`=`+redactedValue)
}
