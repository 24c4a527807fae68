package cheader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/autofake/inspector/graph"
	"gopkg.in/yaml.v3"
)

type declarationSummary struct {
	Kind    string   `yaml:"kind"`
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type,omitempty"`
	HasBody bool     `yaml:"hasBody,omitempty"`
	Members []string `yaml:"members,omitempty"`
}

func summarize(file *graph.File) []*declarationSummary {
	var result []*declarationSummary
	for _, declaration := range file.Declarations {
		decl := declaration.Declared()
		summary := &declarationSummary{
			Kind:    strings.TrimPrefix(fmt.Sprintf("%T", declaration), "*graph."),
			Name:    decl.Name,
			HasBody: decl.HasBody,
		}
		switch actual := declaration.(type) {
		case *graph.Function, *graph.FunctionPointerTypedef, *graph.TypeAlias, *graph.Variable:
			summary.Type = graph.Format(decl.Type, decl.Name)
		case *graph.Enum:
			summary.Members = actual.Members
		}
		result = append(result, summary)
	}
	return result
}

func TestParse_Headers(t *testing.T) {
	tests := []struct {
		description string
		path        string
		guard       string
		includes    []string
		expectYaml  string
	}{
		{
			description: "driver header",
			path:        "testdata/driver.h",
			guard:       "DRIVER_H_",
			includes:    []string{"hardware.h", "stdlib.h", "stdint.h"},
			expectYaml: `- kind: Directive
  name: hardware.h
- kind: Directive
  name: stdlib.h
- kind: Directive
  name: stdint.h
- kind: Enum
  name: Driver_Event
  members: [DRIVER_EVENT_POWER_UP_COMPLETE, DRIVER_EVENT_POWER_DOWN_COMPLETE, DRIVER_EVENT_DATA_AVAILABLE, DRIVER_EVENT_MAX]
- kind: FunctionPointerTypedef
  name: Driver_EventCallback
  type: void (*Driver_EventCallback)(enum Driver_Event)
- kind: TypeAlias
  name: Config
  type: void* Config
- kind: Function
  name: Driver_Initialize
  type: void Driver_Initialize(volatile const Hardware* const hardware, Driver_EventCallback callback)
- kind: Function
  name: Driver_GetHardware
  type: volatile const Hardware* Driver_GetHardware(void)
- kind: Function
  name: Driver_Write
  type: size_t Driver_Write(const uint8_t* buffer, const size_t size)
- kind: Function
  name: Driver_GrabBuffer
  type: void Driver_GrabBuffer(const uint8_t** buffer, size_t* size)
- kind: Function
  name: Driver_PowerUp
  type: void Driver_PowerUp(Config (*config_cb)(void* arg))
- kind: Function
  name: Driver_PowerDown
  type: void Driver_PowerDown(void)
- kind: Function
  name: Driver_Register_Callback
  type: void Driver_Register_Callback(void* (*cb)(void* arg))
- kind: Function
  name: Driver_Deinitialize
  type: int Driver_Deinitialize(void)
- kind: Function
  name: Driver_GetRevision
  type: uint16_t Driver_GetRevision(void)
  hasBody: true
- kind: Function
  name: debug_print
  type: void debug_print(const char* format, ...)
`,
		},
		{
			description: "hardware header",
			path:        "testdata/hardware.h",
			guard:       "HARDWARE_H_",
			includes:    []string{"string.h"},
			expectYaml: `- kind: Directive
  name: string.h
- kind: TypeAlias
  name: Hardware
  type: void* Hardware
- kind: Function
  name: Hardware_GetDescription
  type: const char* Hardware_GetDescription(const Hardware* hw)
`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			src, err := os.ReadFile(tc.path)
			if !assert.Nil(t, err) {
				return
			}
			file, err := Parse(tc.path, src)
			if !assert.Nil(t, err) {
				return
			}
			assert.Equal(t, filepath.Base(tc.path), file.Name)
			assert.Equal(t, tc.guard, file.Guard)
			var includes []string
			for _, include := range file.Includes {
				includes = append(includes, include.Path)
				assert.Equal(t, tc.path, include.From)
			}
			assert.Equal(t, tc.includes, includes)
			var expect []*declarationSummary
			if err = yaml.Unmarshal([]byte(tc.expectYaml), &expect); !assert.Nil(t, err) {
				return
			}
			actual := summarize(file)
			if !assert.EqualValues(t, expect, actual) {
				data, _ := yaml.Marshal(actual)
				fmt.Println("ACTUAL:", string(data))
			}
		})
	}
}

// normalize returns token texts joined by single space
func normalize(t *testing.T, text string) string {
	tokens, err := Tokenize("", []byte(text))
	assert.Nil(t, err)
	var values []string
	for _, token := range tokens {
		if token.Kind != EOF {
			values = append(values, token.Val)
		}
	}
	return strings.Join(values, " ")
}

func TestParse_RoundTrip(t *testing.T) {
	for _, path := range []string{"testdata/example.h", "testdata/driver.h", "testdata/hardware.h", "testdata/qualifiers.h"} {
		t.Run(path, func(t *testing.T) {
			src, err := os.ReadFile(path)
			if !assert.Nil(t, err) {
				return
			}
			file, err := Parse(path, src)
			if !assert.Nil(t, err) {
				return
			}
			functions := file.Functions()
			assert.NotEmpty(t, functions)
			for _, function := range functions {
				if function.HasBody {
					assert.NotContains(t, function.Signature(), "{")
					continue
				}
				assert.Equal(t, normalize(t, function.Raw), normalize(t, function.Signature()+";"), function.Name)
				reparsed, err := Parse("reparsed.h", []byte(function.Signature()+";"))
				if assert.Nil(t, err) && assert.Len(t, reparsed.Functions(), 1) {
					assert.True(t, function.Type.Equal(reparsed.Functions()[0].Type), function.Name)
				}
			}
		})
	}
}

func TestParse_QualifierOrder(t *testing.T) {
	src, err := os.ReadFile("testdata/qualifiers.h")
	if !assert.Nil(t, err) {
		return
	}
	file, err := Parse("qualifiers.h", src)
	if !assert.Nil(t, err) {
		return
	}
	var expect = []string{
		"unsigned const int f1(void)",
		"long const long f2(void)",
		"unsigned volatile long const int f3(const unsigned short s, long const* const p)",
		"short const volatile int f4(void)",
	}
	var actual []string
	for _, function := range file.Functions() {
		actual = append(actual, function.Signature())
	}
	assert.Equal(t, expect, actual)
	assert.Equal(t, "unsigned long int", file.LookupFunction("f3").Result().Unqualified().String())
	assert.Equal(t, []string{"volatile", "const"}, file.LookupFunction("f3").Result().TopQualifiers())
}

func TestParse_ExampleSignatures(t *testing.T) {
	src, err := os.ReadFile("testdata/example.h")
	if !assert.Nil(t, err) {
		return
	}
	file, err := Parse("example.h", src)
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, "EXAMPLE_H_", file.Guard)
	var expect = []string{
		"void SomeFunction1(void)",
		"uint32_t SomeFunction2(void)",
		"uint32_t SomeFunction3(uint32_t* param1)",
		"uint32_t SomeFunction4(uint32_t param1, bool param2)",
		"const volatile uint8_t* const SomeFunction5(const uint8_t** param1, bool param2)",
		"void SomeFunction6(const uint8_t* const* param1, const uint8_t* const param2)",
		"void* SomeFunction7(uint32_t param1, bool* param2)",
	}
	var actual []string
	for _, function := range file.Functions() {
		actual = append(actual, function.Signature())
		assert.Contains(t, string(src), function.Signature())
	}
	assert.Equal(t, expect, actual)

	function := file.LookupFunction("SomeFunction4")
	if assert.NotNil(t, function) {
		assert.Equal(t, "uint32_t", function.Result().String())
		var params []string
		for _, param := range function.Params() {
			params = append(params, param.Type.String())
		}
		assert.Equal(t, []string{"uint32_t", "bool"}, params)
	}
	assert.True(t, file.LookupFunction("SomeFunction7").HasBody)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		description string
		src         string
		parseError  *ParseError
		unsupported *UnsupportedError
	}{
		{
			description: "named parameter after ellipsis",
			src:         "void f(int a, ..., int b);",
			parseError:  &ParseError{Expected: "')' after '...'", Found: `","`},
		},
		{
			description: "missing semicolon",
			src:         "void f(int a)\n",
			parseError:  &ParseError{Expected: "';'", Found: "EOF"},
		},
		{
			description: "unbalanced parameter list",
			src:         "void f(int a;",
			parseError:  &ParseError{Expected: "',' or ')'", Found: `";"`},
		},
		{
			description: "unbalanced body",
			src:         "int f(void) { if (x) { return 1; }",
			parseError:  &ParseError{Expected: "'}'", Found: "EOF"},
		},
		{
			description: "mismatched brackets",
			src:         "int a[3);",
			parseError:  &ParseError{Expected: "']'", Found: `")"`},
		},
		{
			description: "qualifier in illegal position",
			src:         "int * x const;",
			parseError:  &ParseError{Expected: "';'", Found: `"const"`},
		},
		{
			description: "missing type",
			src:         "(*f)(void);",
			parseError:  &ParseError{Expected: "type specifier", Found: `"("`},
		},
		{
			description: "missing identifier",
			src:         "int *;",
			parseError:  &ParseError{Expected: "identifier", Found: `";"`},
		},
		{
			description: "unclosed linkage block",
			src:         "extern \"C\" {\nvoid f(void);\n",
			parseError:  &ParseError{Expected: "'}' closing extern \"C\"", Found: "EOF"},
		},
		{
			description: "pointer to array",
			src:         "int (*p)[3];",
			unsupported: &UnsupportedError{Construct: "pointer to array declarator"},
		},
		{
			description: "bit-field",
			src:         "int flag : 1;",
			unsupported: &UnsupportedError{Construct: "bit-field outside of struct"},
		},
		{
			description: "K&R definition",
			src:         "int add(a, b) int a; int b; { return a + b; }",
			unsupported: &UnsupportedError{Construct: "K&R style parameter declarations"},
		},
		{
			description: "anonymous struct parameter",
			src:         "void f(struct { int a; } s);",
			unsupported: &UnsupportedError{Construct: "struct definition in parameter list"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			_, err := Parse("bad.h", []byte(tc.src))
			if !assert.NotNil(t, err) {
				return
			}
			located, ok := err.(Located)
			if assert.True(t, ok) {
				assert.True(t, located.Position().IsValid())
				assert.Equal(t, "bad.h", located.Position().File)
			}
			switch actual := err.(type) {
			case *ParseError:
				if assert.NotNil(t, tc.parseError, err.Error()) {
					assert.Equal(t, tc.parseError.Expected, actual.Expected)
					assert.Equal(t, tc.parseError.Found, actual.Found)
				}
			case *UnsupportedError:
				if assert.NotNil(t, tc.unsupported, err.Error()) {
					assert.Equal(t, tc.unsupported.Construct, actual.Construct)
				}
			default:
				assert.Fail(t, "unexpected error", "%T: %v", err, err)
			}
		})
	}
}

func TestContext(t *testing.T) {
	src := []byte("#ifndef A_H_\n#define A_H_\n\tvoid f(int a, ..., int b);\n#endif\n")
	_, err := Parse("a.h", src)
	located, ok := err.(Located)
	if !assert.True(t, ok) {
		return
	}
	assert.Equal(t, 3, located.Position().Line)
	expect := "2 | #define A_H_\n3 | \tvoid f(int a, ..., int b);\n  | \t                 ^\n4 | #endif\n"
	assert.Equal(t, expect, Context(src, located.Position(), 1, 1))
	assert.Equal(t, "", Context(src, graph.Position{Line: 10}, 1, 1))
}
