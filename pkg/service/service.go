// Package service exposes the kernel over JSON-RPC so external tooling
// can normalize terms and install declarations against a shared session.
package service

import (
	"context"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/creachadair/jrpc2/handler"

	"github.com/pell-lang/pell/pkg/kernel"
	"github.com/pell-lang/pell/pkg/parse"
	"github.com/pell-lang/pell/pkg/pell"
	"github.com/pell-lang/pell/pkg/term"
)

// Service serves kernel operations over one session. Defining takes the
// write lock; normalization only reads the environment, so queries run
// concurrently.
type Service struct {
	mu      sync.RWMutex
	session *pell.Session
}

// New creates a service with a fresh session.
func New() *Service {
	return &Service{session: pell.NewSession()}
}

// Methods maps the RPC method names to their handlers.
func (s *Service) Methods() handler.Map {
	return handler.Map{
		"pell.normalize":  s.handleNormalize,
		"pell.equivalent": s.handleEquivalent,
		"pell.define":     s.handleDefine,
		"pell.env":        s.handleEnv,
	}
}

// NormalizeParams carry a single term in surface syntax.
type NormalizeParams struct {
	Term string `json:"term"`
}

// NormalizeResult reports the normal form and how many rewrites each
// engine contributed.
type NormalizeResult struct {
	Normal string         `json:"normal"`
	Steps  map[string]int `json:"steps,omitempty"`
}

func (s *Service) handleNormalize(ctx context.Context, req *jrpc2.Request) (any, error) {
	if !req.HasParams() {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "missing parameters")
	}

	var params NormalizeParams
	if err := req.UnmarshalParams(&params); err != nil {
		return nil, err
	}

	t, err := parse.ParseTerm(params.Term)
	if err != nil {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "parsing term: %v", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	steps := map[string]int{}
	n := kernel.Normalizer{
		Env: s.session.Env,
		Trace: func(phase kernel.Phase, before, after term.Term) {
			steps[phase.String()]++
		},
	}
	out, err := n.Normalize(ctx, t)
	if err != nil {
		return nil, err
	}
	return NormalizeResult{Normal: out.String(), Steps: steps}, nil
}

// EquivalentParams carry two terms in surface syntax.
type EquivalentParams struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// EquivalentResult reports whether the two terms share a normal form.
type EquivalentResult struct {
	Equivalent bool `json:"equivalent"`
}

func (s *Service) handleEquivalent(ctx context.Context, req *jrpc2.Request) (any, error) {
	if !req.HasParams() {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "missing parameters")
	}

	var params EquivalentParams
	if err := req.UnmarshalParams(&params); err != nil {
		return nil, err
	}

	left, err := parse.ParseTerm(params.Left)
	if err != nil {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "parsing left term: %v", err)
	}
	right, err := parse.ParseTerm(params.Right)
	if err != nil {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "parsing right term: %v", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	eq, err := s.session.Equivalent(ctx, left, right)
	if err != nil {
		return nil, err
	}
	return EquivalentResult{Equivalent: eq}, nil
}

// DefineParams carry declaration source, possibly several declarations.
type DefineParams struct {
	Source string `json:"source"`
}

// DefineResult lists the names the call installed, in order.
type DefineResult struct {
	Defined []string `json:"defined"`
}

func (s *Service) handleDefine(ctx context.Context, req *jrpc2.Request) (any, error) {
	if !req.HasParams() {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "missing parameters")
	}

	var params DefineParams
	if err := req.UnmarshalParams(&params); err != nil {
		return nil, err
	}

	decls, err := parse.ParseFile("define", params.Source)
	if err != nil {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "parsing declarations: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	defined := []string{}
	for _, decl := range decls {
		if err := s.session.Install(ctx, decl); err != nil {
			return nil, err
		}
		if name, ok := parse.DeclName(decl); ok {
			defined = append(defined, name)
		}
	}
	return DefineResult{Defined: defined}, nil
}

// EnvResult lists every name visible in the session, innermost first.
type EnvResult struct {
	Names []string `json:"names"`
}

func (s *Service) handleEnv(ctx context.Context, req *jrpc2.Request) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return EnvResult{Names: s.session.Names()}, nil
}

func serverOptions() *jrpc2.ServerOptions {
	return &jrpc2.ServerOptions{
		Logger: func(text string) { slog.Debug(text) },
	}
}

// Run serves one connection over Line-framed JSON on r and w, blocking
// until the peer disconnects.
func (s *Service) Run(ctx context.Context, r io.Reader, w io.WriteCloser) error {
	slog.InfoContext(ctx, "rpc server started")
	srv := jrpc2.NewServer(s.Methods(), serverOptions())
	srv.Start(channel.Line(r, w))
	return srv.Wait()
}

// Serve accepts connections on ln until ctx is canceled or the listener
// fails. Every connection shares the session.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	slog.InfoContext(ctx, "rpc server listening", "addr", ln.Addr())

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		go func() {
			srv := jrpc2.NewServer(s.Methods(), serverOptions())
			srv.Start(channel.Line(conn, conn))
			if err := srv.Wait(); err != nil {
				slog.Debug("rpc connection closed", "error", err)
			}
			conn.Close()
		}()
	}
}
