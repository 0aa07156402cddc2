// Package lsp implements a language server for command files.
//
// The server publishes the errors of every open document as diagnostics,
// formats documents with the canonical printer and describes the argument
// under the cursor on hover.
package lsp

import (
	"context"
	"io"

	"github.com/sourcegraph/jsonrpc2"
	"src.mcfn.dev/pkg/logutil"
	"src.mcfn.dev/pkg/parse"
)

var logger = logutil.GetLogger("[lsp] ")

// Serve runs the language server over rwc until the client disconnects or
// ctx is done. Each open document gets its own parser session built from cfg.
func Serve(ctx context.Context, rwc io.ReadWriteCloser, cfg parse.Config) error {
	s, err := newServer(cfg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{}),
		handler(s))
	select {
	case <-conn.DisconnectNotify():
	case <-ctx.Done():
		conn.Close()
	}
	return nil
}

// Transport joins an input and an output stream, such as stdin and stdout,
// into one connection.
func Transport(in io.ReadCloser, out io.WriteCloser) io.ReadWriteCloser {
	return transport{in, out}
}

type transport struct {
	in  io.ReadCloser
	out io.WriteCloser
}

func (c transport) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c transport) Write(p []byte) (int, error) { return c.out.Write(p) }

func (c transport) Close() error {
	if err := c.in.Close(); err != nil {
		c.out.Close()
		return err
	}
	return c.out.Close()
}
