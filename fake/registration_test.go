package fake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/autofake/inspector/cheader"
)

func TestNewRegistration(t *testing.T) {
	tests := []struct {
		description string
		src         string
		maxParams   int
		declare     string
		define      string
		typedefs    []string
		unsupported string
	}{
		{
			description: "void function",
			src:         "void SomeFunction1(void);",
			declare:     "DECLARE_FAKE_VOID_FUNC(SomeFunction1);",
			define:      "DEFINE_FAKE_VOID_FUNC(SomeFunction1);",
		},
		{
			description: "value function",
			src:         "uint32_t SomeFunction4(uint32_t param1, bool param2);",
			declare:     "DECLARE_FAKE_VALUE_FUNC(uint32_t, SomeFunction4, uint32_t, bool);",
			define:      "DEFINE_FAKE_VALUE_FUNC(uint32_t, SomeFunction4, uint32_t, bool);",
		},
		{
			description: "top level qualifiers",
			src:         "const char * const name(const int id, char * const restrict buffer);",
			declare:     "DECLARE_FAKE_VALUE_FUNC(const char*, name, int, char*);",
			define:      "DEFINE_FAKE_VALUE_FUNC(const char*, name, int, char*);",
		},
		{
			description: "qualifiers between type words",
			src:         "unsigned const int f1(long const long value);",
			declare:     "DECLARE_FAKE_VALUE_FUNC(unsigned int, f1, long long);",
			define:      "DEFINE_FAKE_VALUE_FUNC(unsigned int, f1, long long);",
		},
		{
			description: "array parameter",
			src:         "void fill(const int values[4], char text[]);",
			declare:     "DECLARE_FAKE_VOID_FUNC(fill, const int*, char*);",
			define:      "DEFINE_FAKE_VOID_FUNC(fill, const int*, char*);",
		},
		{
			description: "function parameter",
			src:         "void on(int handler(int));",
			declare:     "DECLARE_FAKE_VOID_FUNC(on, fff_on_param0);",
			define:      "DEFINE_FAKE_VOID_FUNC(on, fff_on_param0);",
			typedefs:    []string{"typedef int (*fff_on_param0)(int);"},
		},
		{
			description: "function pointer parameters and result",
			src:         "void (*signal(int sig, void (*handler)(int)))(int);",
			declare:     "DECLARE_FAKE_VALUE_FUNC(fff_signal_return, signal, int, fff_signal_param1);",
			define:      "DEFINE_FAKE_VALUE_FUNC(fff_signal_return, signal, int, fff_signal_param1);",
			typedefs: []string{
				"typedef void (*fff_signal_return)(int);",
				"typedef void (*fff_signal_param1)(int);",
			},
		},
		{
			description: "variadic",
			src:         "int log_printf(const char *format, ...);",
			declare:     "DECLARE_FAKE_VALUE_FUNC_VARARG(int, log_printf, const char*, ...);",
			define:      "DEFINE_FAKE_VALUE_FUNC_VARARG(int, log_printf, const char*, ...);",
		},
		{
			description: "variadic without named parameter",
			src:         "void any(...);",
			unsupported: "variadic function any without named parameters",
		},
		{
			description: "multi-dimensional array parameter",
			src:         "void grid(int cells[2][3]);",
			unsupported: "multi-dimensional array parameter 0 of grid",
		},
		{
			description: "too many parameters",
			src:         "void many(int a, int b, int c);",
			maxParams:   2,
			unsupported: "function many with 3 parameters, limit is 2",
		},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			file, err := cheader.Parse("test.h", []byte(tc.src))
			if !assert.Nil(t, err) || !assert.Len(t, file.Functions(), 1) {
				return
			}
			maxParams := tc.maxParams
			if maxParams == 0 {
				maxParams = DefaultConfig().MaxParams
			}
			registration, err := NewRegistration(file.Functions()[0], maxParams)
			if tc.unsupported != "" {
				unsupported, ok := err.(*cheader.UnsupportedError)
				if assert.True(t, ok, err) {
					assert.Equal(t, tc.unsupported, unsupported.Construct)
				}
				return
			}
			if !assert.Nil(t, err) {
				return
			}
			assert.Equal(t, tc.declare, registration.Invocation("DECLARE"))
			assert.Equal(t, tc.define, registration.Invocation("DEFINE"))
			assert.Equal(t, tc.typedefs, registration.Typedefs)
		})
	}
}

func TestIncludeGuard(t *testing.T) {
	tests := []struct {
		name   string
		expect string
	}{
		{name: "driver_fake.h", expect: "DRIVER_FAKE_H_"},
		{name: "include/hardware_fake.h", expect: "HARDWARE_FAKE_H_"},
		{name: "my-lib.v2_fake.h", expect: "MYLIBV2_FAKE_H_"},
		{name: "2d_fake.h", expect: "_2D_FAKE_H_"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, IncludeGuard(tc.name))
		})
	}
}
