package enhance

import "testing"

func TestExtractBlock(t *testing.T) {
	cases := []struct {
		name    string
		content string
		tag     string
		want    string
	}{
		{
			"closed script",
			"<script>var a = 1;</script>",
			"script", "var a = 1;",
		},
		{
			"script with attributes",
			`<script type="text/javascript">init();</script>`,
			"script", "init();",
		},
		{
			"block wrapped in prose",
			"Here you go:\n<style>.a { color: red; }</style>\nEnjoy!",
			"style", ".a { color: red; }",
		},
		{
			"unclosed script at end of text",
			"<script>var a = 1;",
			"script", "var a = 1;",
		},
		{
			"unclosed script followed by style",
			"<script>var a = 1;\n<style>.a {}</style>",
			"script", "var a = 1;\n",
		},
		{
			"style after unclosed script",
			"<script>var a = 1;\n<style>.a {}</style>",
			"style", ".a {}",
		},
		{
			"uppercase tags",
			"<SCRIPT>shout();</SCRIPT>",
			"script", "shout();",
		},
		{
			"first block wins",
			"<script>one();</script><script>two();</script>",
			"script", "one();",
		},
		{
			"missing block",
			"no code here",
			"script", "",
		},
		{
			"unknown tag",
			"<script>x</script>",
			"template", "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractBlock(tc.content, tc.tag); got != tc.want {
				t.Fatalf("ExtractBlock(%q) = %q, want %q", tc.tag, got, tc.want)
			}
		})
	}
}
