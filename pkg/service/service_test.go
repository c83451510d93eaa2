package service

import (
	"context"
	"net"
	"testing"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T) *jrpc2.Client {
	t.Helper()

	srvEnd, cliEnd := net.Pipe()
	srv := jrpc2.NewServer(New().Methods(), nil)
	srv.Start(channel.Line(srvEnd, srvEnd))
	cli := jrpc2.NewClient(channel.Line(cliEnd, cliEnd), nil)
	t.Cleanup(func() {
		cli.Close()
		srv.Stop()
	})
	return cli
}

func TestNormalize(t *testing.T) {
	cli := testClient(t)
	ctx := context.Background()

	var res NormalizeResult
	require.NoError(t, cli.CallResult(ctx, "pell.normalize", NormalizeParams{Term: "(λx. x) y"}, &res))
	assert.Equal(t, "y", res.Normal)
	assert.Equal(t, map[string]int{"beta": 1}, res.Steps)
}

func TestEquivalent(t *testing.T) {
	cli := testClient(t)
	ctx := context.Background()

	t.Run("alpha renaming", func(t *testing.T) {
		var res EquivalentResult
		require.NoError(t, cli.CallResult(ctx, "pell.equivalent",
			EquivalentParams{Left: "λx. x", Right: "λy. y"}, &res))
		assert.True(t, res.Equivalent)
	})

	t.Run("distinct normal forms", func(t *testing.T) {
		var res EquivalentResult
		require.NoError(t, cli.CallResult(ctx, "pell.equivalent",
			EquivalentParams{Left: "λx. λy. x", Right: "λx. λy. y"}, &res))
		assert.False(t, res.Equivalent)
	})
}

func TestDefineThenNormalize(t *testing.T) {
	cli := testClient(t)
	ctx := context.Background()

	var defined DefineResult
	require.NoError(t, cli.CallResult(ctx, "pell.define",
		DefineParams{Source: "def id(x) := x\naxiom Nat : Type"}, &defined))
	assert.Equal(t, []string{"id", "Nat"}, defined.Defined)

	var res NormalizeResult
	require.NoError(t, cli.CallResult(ctx, "pell.normalize", NormalizeParams{Term: "id(id)"}, &res))
	assert.Equal(t, "λx. x", res.Normal)
	assert.Equal(t, 1, res.Steps["delta"])

	var env EnvResult
	require.NoError(t, cli.CallResult(ctx, "pell.env", nil, &env))
	assert.Contains(t, env.Names, "id")
	assert.Contains(t, env.Names, "Nat")
	assert.Contains(t, env.Names, "debug_print")
}

func TestInvalidParams(t *testing.T) {
	cli := testClient(t)
	ctx := context.Background()

	t.Run("missing parameters", func(t *testing.T) {
		var res NormalizeResult
		err := cli.CallResult(ctx, "pell.normalize", nil, &res)
		require.Error(t, err)
		var rpcErr *jrpc2.Error
		require.ErrorAs(t, err, &rpcErr)
		assert.Equal(t, jrpc2.InvalidParams, rpcErr.Code)
	})

	t.Run("malformed term", func(t *testing.T) {
		var res NormalizeResult
		err := cli.CallResult(ctx, "pell.normalize", NormalizeParams{Term: "λ. x"}, &res)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing term")
	})

	t.Run("malformed left term", func(t *testing.T) {
		var res EquivalentResult
		err := cli.CallResult(ctx, "pell.equivalent", EquivalentParams{Left: "(", Right: "λx. x"}, &res)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing left term")
	})
}

func TestNormalizeReportsKernelErrors(t *testing.T) {
	cli := testClient(t)
	ctx := context.Background()

	var defined DefineResult
	require.NoError(t, cli.CallResult(ctx, "pell.define", DefineParams{Source: "def id(x) := x"}, &defined))

	var res NormalizeResult
	err := cli.CallResult(ctx, "pell.normalize", NormalizeParams{Term: "id(id, id)"}, &res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many arguments")
}

func TestRun(t *testing.T) {
	srvEnd, cliEnd := net.Pipe()
	done := make(chan error, 1)
	go func() {
		done <- New().Run(context.Background(), srvEnd, srvEnd)
	}()

	cli := jrpc2.NewClient(channel.Line(cliEnd, cliEnd), nil)
	var res NormalizeResult
	require.NoError(t, cli.CallResult(context.Background(), "pell.normalize", NormalizeParams{Term: "λx. x"}, &res))
	assert.Equal(t, "λx. x", res.Normal)

	cli.Close()
	require.NoError(t, <-done)
}

func TestServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New().Serve(ctx, ln)
	}()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	cli := jrpc2.NewClient(channel.Line(conn, conn), nil)

	var res NormalizeResult
	require.NoError(t, cli.CallResult(context.Background(), "pell.normalize", NormalizeParams{Term: "λx. x"}, &res))
	assert.Equal(t, "λx. x", res.Normal)
	cli.Close()

	cancel()
	require.NoError(t, <-done)
}
