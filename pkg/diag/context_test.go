package diag

import "testing"

var contextShowTests = []struct {
	name    string
	context *Context
	indent  string
	want    string
}{
	{
		name:    "single-line culprit",
		context: contextInParen("[test]", "main = (bad)"),
		indent:  "_",
		want:    "[test]:1:8: main = <(bad)>",
	},
	{
		name:    "multi-line culprit",
		context: contextInParen("[test]", "a = (1\n+ 2)\nmore"),
		indent:  "_",
		want: lines(
			"[test]:1:5: a = <(1>",
			"_            <+ 2)>"),
	},
	{
		name: "trailing newline in culprit is removed",
		//                             0123456789
		context: NewContext("[test]", "main = 1\n", Ranging{7, 9}),
		want:    "[test]:1:8: main = <1>",
	},
	{
		name:    "empty culprit",
		context: NewContext("[test]", "main =", PointRanging(6)),
		want:    "[test]:1:7: main =<^>",
	},
	{
		name:    "column counts codepoints",
		context: contextInParen("[test]", "a\nλ = (x)"),
		want:    "[test]:2:5: λ = <(x)>",
	},
	{
		name:    "unknown position",
		context: NewContext("[test]", "main = 1", Ranging{-1, -1}),
		want:    "[test], unknown position",
	},
	{
		name:    "invalid position",
		context: NewContext("[test]", "main = 1", Ranging{5, 100}),
		want:    "[test], invalid position 5-100",
	},
}

func TestContext_Show(t *testing.T) {
	setCulpritMarkers(t, "<", ">")
	for _, test := range contextShowTests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.context.Show(test.indent); got != test.want {
				t.Errorf("Show() -> %q, want %q", got, test.want)
			}
		})
	}
}
