package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// requireScript prints the JSON form of a CommonJS module's exports.
const requireScript = `const v = require(require('path').resolve(process.argv[1])); process.stdout.write(JSON.stringify(v === undefined ? null : v));`

// Node loads CommonJS modules by requiring them in a Node.js child process
// and decoding the JSON form of their exports. Functions and other values
// without a JSON form are dropped by JSON.stringify.
type Node struct {
	// Bin is the node executable. When empty it is looked up on PATH.
	Bin string
}

// Load implements Loader.
func (n *Node) Load(ctx context.Context, filename string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bin := n.Bin
	if bin == "" {
		var err error
		bin, err = exec.LookPath("node")
		if err != nil {
			return nil, &LoadError{File: filename, Err: fmt.Errorf("node loader requires Node.js: %w", err)}
		}
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-e", requireScript, filename)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, &LoadError{File: filename, Err: fmt.Errorf("%w\n%s", err, msg)}
		}
		return nil, &LoadError{File: filename, Err: err}
	}

	dec := json.NewDecoder(&stdout)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &LoadError{File: filename, Err: fmt.Errorf("decoding module exports: %w", err)}
	}
	return v, nil
}
