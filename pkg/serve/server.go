package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/guraa/pdf-compare-tool-sub002/pkg/scheduler"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/store"
)

// Server streams NDJSON requests from in and NDJSON responses to out,
// submitting comparison jobs to sched and answering status queries from
// repo. A "tick" request drives the scheduler's admission pass
// synchronously, so a client with no background Run loop can still make
// progress on submitted jobs one request at a time.
type Server struct {
	sched   *scheduler.Scheduler
	repo    store.ComparisonRepository
	encoder *json.Encoder
	decoder *json.Decoder
}

// NewServer creates a streaming server bound to sched/repo, reading
// requests from in and writing responses to out.
func NewServer(sched *scheduler.Scheduler, repo store.ComparisonRepository, in io.Reader, out io.Writer) *Server {
	return &Server{
		sched:   sched,
		repo:    repo,
		encoder: json.NewEncoder(out),
		decoder: json.NewDecoder(bufio.NewReader(in)),
	}
}

// Run starts the server's main loop, processing requests until stdin
// closes, a "close" request arrives, or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.sendReady()

	reqChan := make(chan Request, 1)
	errChan := make(chan error, 1)

	go func() {
		for {
			var req Request
			if err := s.decoder.Decode(&req); err != nil {
				errChan <- err
				return
			}
			select {
			case reqChan <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errChan:
			for {
				select {
				case req := <-reqChan:
					if s.processRequest(ctx, req) {
						return nil
					}
				default:
					if err == io.EOF {
						return nil
					}
					s.sendError("decode", err.Error())
					return nil
				}
			}
		case req := <-reqChan:
			if s.processRequest(ctx, req) {
				return nil
			}
		}
	}
}

// processRequest handles a single request and reports whether the
// server should exit.
func (s *Server) processRequest(ctx context.Context, req Request) bool {
	switch req.Type {
	case "submit":
		s.handleSubmit(ctx, req.Payload)
	case "status":
		s.handleStatus(ctx, req.Payload)
	case "tick":
		s.handleTick(ctx)
	case "close":
		return true
	default:
		s.sendError("unknown", "unknown request type: "+req.Type)
	}
	return false
}

func (s *Server) sendReady() {
	data, _ := json.Marshal(ReadyData{Version: Version})
	s.encoder.Encode(Response{Success: true, Type: "ready", Data: data})
}

func (s *Server) handleSubmit(ctx context.Context, payload json.RawMessage) {
	var p SubmitPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("submit", err.Error())
		return
	}

	id, err := s.sched.Submit(ctx, p.BasePath, p.ComparePath)
	if err != nil {
		s.sendError("submit", err.Error())
		return
	}

	data, _ := json.Marshal(SubmitResult{JobID: id})
	s.encoder.Encode(Response{Success: true, Type: "submit", Data: data})
}

func (s *Server) handleStatus(ctx context.Context, payload json.RawMessage) {
	var p StatusPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("status", err.Error())
		return
	}

	c, err := s.repo.FindByID(ctx, p.JobID)
	if err != nil {
		s.sendError("status", fmt.Sprintf("comparison %s: %s", p.JobID, err))
		return
	}

	data, _ := json.Marshal(c)
	s.encoder.Encode(Response{Success: true, Type: "status", Data: data})
}

func (s *Server) handleTick(ctx context.Context) {
	s.sched.Tick(ctx)
	data, _ := json.Marshal(map[string]int{"activeCount": s.sched.ActiveCount()})
	s.encoder.Encode(Response{Success: true, Type: "tick", Data: data})
}

func (s *Server) sendError(reqType, msg string) {
	s.encoder.Encode(Response{Success: false, Type: reqType, Error: msg})
}
