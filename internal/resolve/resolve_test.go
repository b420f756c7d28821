package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/batchop/internal/model"
)

func vars(pairs ...string) []model.Variable {
	out := make([]model.Variable, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, model.Variable{Name: pairs[i], Value: pairs[i+1]})
	}
	return out
}

func TestTextIdentityWithoutVariables(t *testing.T) {
	for _, text := range []string{"", "plain", "{{A}}", "{{", "}}{{x}}", "a/{{ B }}/c"} {
		assert.Equal(t, text, Text(text, nil), "text %q", text)
		assert.Equal(t, text, Text(text, []model.Variable{}), "text %q", text)
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		name string
		text string
		vars []model.Variable
		want string
	}{
		{"all occurrences", "{{A}}/{{A}}", vars("A", "x"), "x/x"},
		{"unknown placeholder kept", "{{B}}", vars("A", "x"), "{{B}}"},
		{"case sensitive", "{{a}}", vars("A", "x"), "{{a}}"},
		{"no whitespace tolerance", "{{ A }}", vars("A", "x"), "{{ A }}"},
		{"several variables", "{{Desktop}}/{{Project}}/out", vars("Desktop", "/Users/x/Desktop", "Project", "site"), "/Users/x/Desktop/site/out"},
		{"empty value", "a{{A}}b", vars("A", ""), "ab"},
		{"regex metacharacters are literal", "{{a.b}}/{{axb}}", vars("a.b", "dot"), "dot/{{axb}}"},
		{"dollar in value is literal", "{{A}}", vars("A", "$1$&"), "$1$&"},
		{"triple braces", "{{{A}}}", vars("A", "x"), "{x}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.text, tt.vars))
		})
	}
}

func TestTextSequentialOrderDependence(t *testing.T) {
	// A later variable expands a placeholder introduced by an earlier value.
	assert.Equal(t, "/root/x", Text("{{A}}", vars("A", "{{B}}/x", "B", "/root")))

	// An earlier variable does not see a placeholder introduced later.
	assert.Equal(t, "{{A}}/x", Text("{{B}}", vars("A", "/root", "B", "{{A}}/x")))

	// Not recursive: a value that refers to itself is substituted once.
	assert.Equal(t, "{{A}}{{A}}", Text("{{A}}", vars("A", "{{A}}{{A}}")))
}

func TestOperation(t *testing.T) {
	vs := vars("Desktop", "/Users/x/Desktop", "Key", "meta")

	copyOp := Operation(model.CopyOp{From: "{{Desktop}}/a", To: "{{Desktop}}/b", SkipExist: true}, vs)
	assert.Equal(t, model.CopyOp{From: "/Users/x/Desktop/a", To: "/Users/x/Desktop/b", SkipExist: true}, copyOp)

	jsonOp := Operation(model.ModifyJSONOp{From: "{{Desktop}}", To: "out", JSONPath: "$.{{Key}}.*"}, vs)
	assert.Equal(t, model.ModifyJSONOp{From: "/Users/x/Desktop", To: "out", JSONPath: "$.meta.*"}, jsonOp)
}

func TestPlaceholders(t *testing.T) {
	assert.Nil(t, Placeholders("no placeholders"))
	assert.Equal(t, []string{"A", "B"}, Placeholders("{{A}}/{{B}}/{{A}}"))
	assert.Equal(t, []string{"A"}, Placeholders("{{A}}/{{B"))
	assert.Equal(t, []string{" spaced "}, Placeholders("{{}}{{ spaced }}"))
}

func TestUnresolved(t *testing.T) {
	op := Operation(model.ModifyJSONOp{From: "{{A}}/{{B}}", To: "{{C}}", JSONPath: "{{B}}"}, vars("A", "a"))
	assert.Equal(t, []string{"B", "C"}, Unresolved(op))
	assert.Empty(t, Unresolved(model.CopyOp{From: "a", To: "b"}))
}
