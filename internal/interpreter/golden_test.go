package interpreter

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aris-lang/aris/internal/lexer"
)

var update = flag.Bool("update", false, "rewrite golden files")

// runScript executes a script the way the aris command does and returns
// the program output followed by the error line, if any.
func runScript(src []byte) string {
	var out bytes.Buffer
	statements, err := lexer.Tokenize(bytes.NewReader(src))
	if err == nil {
		err = New(&out).Run(context.Background(), statements)
	}
	if err != nil {
		fmt.Fprintf(&out, "error: %s\n", err)
	}
	return out.String()
}

func TestGoldenScripts(t *testing.T) {
	scripts, err := filepath.Glob(filepath.Join("testdata", "*.aris"))
	if err != nil {
		t.Fatal(err)
	}
	if len(scripts) == 0 {
		t.Fatal("no scripts under testdata")
	}

	for _, script := range scripts {
		name := strings.TrimSuffix(filepath.Base(script), ".aris")
		t.Run(name, func(t *testing.T) {
			src, err := os.ReadFile(script)
			if err != nil {
				t.Fatal(err)
			}
			got := runScript(src)

			golden := strings.TrimSuffix(script, ".aris") + ".golden"
			if *update {
				if err := os.WriteFile(golden, []byte(got), 0644); err != nil {
					t.Fatal(err)
				}
				return
			}
			want, err := os.ReadFile(golden)
			if err != nil {
				t.Fatal(err)
			}
			if got != string(want) {
				t.Errorf("output mismatch\n--- got ---\n%s--- want ---\n%s", got, want)
			}
		})
	}
}
