package argparse

import (
	"testing"

	"github.com/brandonbloom/fx/internal/descriptor"
	"github.com/stretchr/testify/require"
)

func command(t *testing.T, yaml string) *descriptor.Command {
	t.Helper()
	cmd, err := descriptor.DecodeCommand([]byte(yaml))
	require.NoError(t, err)
	return cmd
}

func expectParse(t *testing.T, cmd *descriptor.Command, args []string, want string) {
	t.Helper()
	blob, err := Parse(args, cmd)
	require.NoError(t, err)
	got, err := blob.Encode()
	require.NoError(t, err)
	require.JSONEq(t, want, got)
}

func expectFail(t *testing.T, cmd *descriptor.Command, args []string, want string) {
	t.Helper()
	_, err := Parse(args, cmd)
	require.Error(t, err)
	require.Equal(t, want, err.Error())
	require.True(t, IsParseError(err))
}

const allOptions = `
options:
  - {name: bool-test, bool_value: {}}
  - {name: string-test, string_value: {}}
  - {name: string-list-test, string_value: {list: true}}
  - {name: int-test, int_value: {}}
  - {name: int-list-test, int_value: {list: true}}
  - {name: double-test, double_value: {}}
  - {name: double-list-test, double_value: {list: true}}
`

func TestHelpFlag(t *testing.T) {
	cmd := command(t, `
options:
  - {name: bool-test, bool_value: {}}
  - {name: string-test, string_value: {required: true}}
`)
	for _, flag := range []string{"--help", "-h"} {
		t.Run(flag, func(t *testing.T) {
			blob, err := Parse([]string{flag}, cmd)
			require.NoError(t, err)
			require.True(t, IsHelp(blob))
		})
	}
}

func TestDefaultOptionsWithoutUserInput(t *testing.T) {
	expectParse(t, command(t, allOptions), nil, `{
		"bool-test": {"user_set": false, "value": false},
		"string-test": {"user_set": false, "value": ""},
		"string-list-test": {"user_set": false, "value": [""]},
		"int-test": {"user_set": false, "value": 0},
		"int-list-test": {"user_set": false, "value": [0]},
		"double-test": {"user_set": false, "value": 0.0},
		"double-list-test": {"user_set": false, "value": [0.0]},
		"help": {"user_set": false, "value": false}
	}`)
}

func TestDefaultOptionsWithUserInput(t *testing.T) {
	args := []string{
		"--bool-test",
		"--string-test", "hello",
		"--string-list-test", "goodbye",
		"--string-list-test", "friend",
		"--int-test", "416",
		"--int-list-test", "90",
		"--int-list-test", "5",
		"--double-test", "-90.5",
		"--double-list-test", "-0.4",
		"--double-list-test=1.6",
	}
	expectParse(t, command(t, allOptions), args, `{
		"bool-test": {"user_set": true, "value": true},
		"string-test": {"user_set": true, "value": "hello"},
		"string-list-test": {"user_set": true, "value": ["goodbye", "friend"]},
		"int-test": {"user_set": true, "value": 416},
		"int-list-test": {"user_set": true, "value": [90, 5]},
		"double-test": {"user_set": true, "value": -90.5},
		"double-list-test": {"user_set": true, "value": [-0.4, 1.6]},
		"help": {"user_set": false, "value": false}
	}`)
}

func TestCustomDefaults(t *testing.T) {
	cmd := command(t, `
options:
  - {name: string-test, string_value: {default: custom}}
  - {name: string-list-test, string_value: {list: true, default: custom-list}}
  - {name: int-list-test, int_value: {list: true, default: -905}}
  - {name: double-test, double_value: {default: 90.5}}
arguments:
  - {name: int-arg, int_value: {default: 416}}
`)
	expectParse(t, cmd, nil, `{
		"string-test": {"user_set": false, "value": "custom"},
		"string-list-test": {"user_set": false, "value": ["custom-list"]},
		"int-list-test": {"user_set": false, "value": [-905]},
		"double-test": {"user_set": false, "value": 90.5},
		"int-arg": {"user_set": false, "value": 416},
		"help": {"user_set": false, "value": false}
	}`)

	expectParse(t, cmd, []string{"--string-list-test", "mine", "7"}, `{
		"string-test": {"user_set": false, "value": "custom"},
		"string-list-test": {"user_set": true, "value": ["mine"]},
		"int-list-test": {"user_set": false, "value": [-905]},
		"double-test": {"user_set": false, "value": 90.5},
		"int-arg": {"user_set": true, "value": 7},
		"help": {"user_set": false, "value": false}
	}`)
}

func TestPositionalArguments(t *testing.T) {
	cmd := command(t, `
arguments:
  - {name: string-test, string_value: {}}
  - {name: int-test, int_value: {}}
  - {name: double-test, double_value: {list: true}}
`)
	expectParse(t, cmd, []string{"hello", "416", "1.5", "2"}, `{
		"string-test": {"user_set": true, "value": "hello"},
		"int-test": {"user_set": true, "value": 416},
		"double-test": {"user_set": true, "value": [1.5, 2.0]},
		"help": {"user_set": false, "value": false}
	}`)

	expectParse(t, cmd, []string{"hello"}, `{
		"string-test": {"user_set": true, "value": "hello"},
		"int-test": {"user_set": false, "value": 0},
		"double-test": {"user_set": false, "value": [0.0]},
		"help": {"user_set": false, "value": false}
	}`)
}

func TestShortNamesAndInterspersedFlags(t *testing.T) {
	cmd := command(t, `
options:
  - {name: language, short_name: l, string_value: {list: true, default: all}}
  - {name: test, short_name: t, bool_value: {}}
arguments:
  - {name: paths, string_value: {list: true}}
`)
	expectParse(t, cmd, []string{"src", "-l", "cpp", "-t", "include", "--language=c++"}, `{
		"language": {"user_set": true, "value": ["cpp", "c++"]},
		"test": {"user_set": true, "value": true},
		"paths": {"user_set": true, "value": ["src", "include"]},
		"help": {"user_set": false, "value": false}
	}`)
}

func TestParseFailures(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		args []string
		want string
	}{
		{
			name: "unknownFlag",
			yaml: allOptions,
			args: []string{"--fail-flag"},
			want: "[argparse] unknown flag: --fail-flag",
		},
		{
			name: "extraPositional",
			yaml: "arguments:\n  - {name: int-test, int_value: {}}\n",
			args: []string{"1", "905"},
			want: "[argparse] Unrecognized token: 905",
		},
		{
			name: "positionalWithoutArguments",
			yaml: allOptions,
			args: []string{"world"},
			want: "[argparse] Unrecognized token: world",
		},
		{
			name: "invalidIntOption",
			yaml: allOptions,
			args: []string{"--int-test", "test"},
			want: "[argparse] Unable to convert 'test' to destination type",
		},
		{
			name: "invalidDoubleArgument",
			yaml: "arguments:\n  - {name: double-test, double_value: {}}\n",
			args: []string{"test"},
			want: "[argparse] Unable to convert 'test' to destination type",
		},
		{
			name: "requiredOption",
			yaml: "options:\n  - {name: int-test, int_value: {required: true}}\n",
			args: nil,
			want: "[argparse] Expected: --int-test <int-test>",
		},
		{
			name: "requiredListOption",
			yaml: "options:\n  - {name: string-test, string_value: {required: true, list: true}}\n",
			args: nil,
			want: "[argparse] Expected: --string-test <string-test>",
		},
		{
			name: "requiredArgument",
			yaml: "arguments:\n  - {name: string-test, string_value: {required: true}}\n",
			args: nil,
			want: "[argparse] Expected: <string-test>",
		},
		{
			name: "requiredListArgument",
			yaml: "arguments:\n  - {name: int-test, int_value: {required: true, list: true}}\n",
			args: nil,
			want: "[argparse] Expected: <int-test> [<int-test>...]",
		},
		{
			name: "invalidOptionChoice",
			yaml: "options:\n  - {name: int-test, int_value: {choices: [4, 1, 6]}}\n",
			args: []string{"--int-test", "905"},
			want: "[argparse] Value '905' not expected.",
		},
		{
			name: "invalidArgumentChoice",
			yaml: "arguments:\n  - {name: string-test, string_value: {choices: [hello, world]}}\n",
			args: []string{"905"},
			want: "[argparse] Value '905' not expected.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectFail(t, command(t, tc.yaml), tc.args, tc.want)
		})
	}
}

func TestValidChoices(t *testing.T) {
	cmd := command(t, `
options:
  - {name: double-test, double_value: {choices: [4.1, 1.2, 6.3]}}
arguments:
  - {name: string-test, string_value: {choices: [hello, world]}}
`)
	expectParse(t, cmd, []string{"--double-test", "1.2", "world"}, `{
		"double-test": {"user_set": true, "value": 1.2},
		"string-test": {"user_set": true, "value": "world"},
		"help": {"user_set": false, "value": false}
	}`)
}

func TestHelpSkipsRequiredChecks(t *testing.T) {
	cmd := command(t, "arguments:\n  - {name: target, string_value: {required: true}}\n")
	blob, err := Parse([]string{"-h"}, cmd)
	require.NoError(t, err)
	require.True(t, IsHelp(blob))
}

func TestBlobKeysAreSorted(t *testing.T) {
	cmd := command(t, `
options:
  - {name: zebra, bool_value: {}}
  - {name: apple, bool_value: {}}
`)
	blob, err := Parse(nil, cmd)
	require.NoError(t, err)
	require.Equal(t, []string{"apple", "help", "zebra"}, blob.Names())
}
