package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLowerFirst(t *testing.T) {
	cases := map[string]string{
		"FormNumber":      "formNumber",
		"SubmittedBy":     "submittedBy",
		"BMBCChecksheet":  "bmbcChecksheet",
		"IntermediateWWP": "intermediateWWP",
		"ID":              "id",
		"bogieNo":         "bogieNo",
		"":                "",
	}

	for input, expected := range cases {
		assert.Equal(t, expected, lowerFirst(input), "input %q", input)
	}
}
