// Package integration provides embedded shell integration snippets.
package integration

import (
	"bytes"
	_ "embed"
	"os"
	"os/exec"
	"path/filepath"
	"text/template"
)

// ZshFzf contains the zsh shell integration script with fzf support.
//
//go:embed zsh-fzf.sh
var ZshFzf string

// Render renders the integration script with the paths of zsh and of the
// running dusort binary.
func Render() (string, error) {
	zsh, err := exec.LookPath("zsh")
	if err != nil {
		return "", err
	}

	bin, err := os.Executable()
	if err != nil {
		return "", err
	}

	return render(filepath.ToSlash(zsh), filepath.ToSlash(bin))
}

func render(zsh, bin string) (string, error) {
	tmpl, err := template.New("zsh-fzf").Parse(ZshFzf)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any{
		"ZSH": zsh,
		"BIN": bin,
	}); err != nil {
		return "", err
	}

	return buf.String(), nil
}
