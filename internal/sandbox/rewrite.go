package sandbox

import "strings"

// RewriteScript wraps user script so it runs after the preview document
// has parsed, and so a thrown error degrades to inert-but-responsive
// buttons instead of a dead preview.
func RewriteScript(src string) string {
	var sb strings.Builder
	sb.WriteString("document.addEventListener('DOMContentLoaded', function() {\n")
	sb.WriteString("  try {\n")
	for _, line := range strings.Split(src, "\n") {
		sb.WriteString("    ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("  } catch (err) {\n")
	sb.WriteString("    console.error('frame script failed:', err);\n")
	sb.WriteString("    document.querySelectorAll('button').forEach(function(btn) {\n")
	sb.WriteString("      btn.addEventListener('click', function() {\n")
	sb.WriteString("        btn.style.opacity = '0.5';\n")
	sb.WriteString("        setTimeout(function() { btn.style.opacity = ''; }, 150);\n")
	sb.WriteString("      });\n")
	sb.WriteString("    });\n")
	sb.WriteString("  }\n")
	sb.WriteString("});\n")
	return sb.String()
}
