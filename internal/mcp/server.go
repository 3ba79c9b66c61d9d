// Package mcp exposes the distribution tables and the simulation engine
// as MCP tools over a stdio JSON-RPC loop.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"bloodsim/internal/distribution"
	"bloodsim/internal/simulation"
	"bloodsim/internal/stats"

	"github.com/rs/zerolog/log"
)

// DistributionProvider is the slice of the ingest store the server needs.
type DistributionProvider interface {
	Rows(distribution.Category) ([]distribution.ClassRow, error)
	Table(distribution.Category) (*distribution.Table, error)
	Tables() map[distribution.Category]*distribution.Table
}

// JSONRPCRequest represents a standard MCP/JSON-RPC request.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse represents a standard MCP/JSON-RPC response.
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// Server holds the state for the MCP server. The reader and writer are
// injected so tests can drive the loop without real stdio.
type Server struct {
	store DistributionProvider
	in    io.Reader
	out   io.Writer
}

// NewServer creates a new MCP server over the given distribution store.
func NewServer(store DistributionProvider, in io.Reader, out io.Writer) *Server {
	return &Server{store: store, in: in, out: out}
}

// Serve runs the JSON-RPC loop until the input stream ends.
func (s *Server) Serve() error {
	reader := bufio.NewReader(s.in)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var req JSONRPCRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Error().Err(err).Msg("Failed to unmarshal request")
			continue
		}

		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req JSONRPCRequest) {
	var result interface{}
	var errRes interface{}

	switch req.Method {
	case "initialize":
		result = map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities":    map[string]interface{}{},
			"serverInfo": map[string]interface{}{
				"name":    "bloodsim",
				"version": "0.1.0",
			},
		}
	case "tools/list":
		result = s.listTools()
	case "tools/call":
		result, errRes = s.callTool(req.Params)
	default:
		errRes = map[string]interface{}{
			"code":    -32601,
			"message": fmt.Sprintf("Method %s not found", req.Method),
		}
	}

	resp := JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
		Error:   errRes,
	}

	out, _ := json.Marshal(resp)
	fmt.Fprintf(s.out, "%s\n", out)
}

func (s *Server) listTools() interface{} {
	return map[string]interface{}{
		"tools": []interface{}{
			map[string]interface{}{
				"name":        "list_blood_groups",
				"description": "List the ABO blood groups that have a loaded demand distribution.",
				"inputSchema": map[string]interface{}{
					"type":       "object",
					"properties": map[string]interface{}{},
				},
			},
			map[string]interface{}{
				"name":        "get_distribution_table",
				"description": "Get the empirical frequency classes and derived random-number ranges for one blood group (A, B, AB or O).",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"group": map[string]interface{}{"type": "string", "enum": []string{"A", "B", "AB", "O"}},
					},
					"required": []string{"group"},
				},
			},
			map[string]interface{}{
				"name":        "run_simulation",
				"description": "Run a Monte Carlo demand simulation over the loaded distributions and return per-period records plus a summary. Pass a seed for a reproducible run.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"periods": map[string]interface{}{"type": "integer", "description": "Number of periods to simulate, must be positive"},
						"seed":    map[string]interface{}{"type": "integer", "description": "Optional RNG seed; omitted means time-based"},
					},
					"required": []string{"periods"},
				},
			},
		},
	}
}

func (s *Server) callTool(params json.RawMessage) (interface{}, interface{}) {
	var call struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	if err := json.Unmarshal(params, &call); err != nil {
		return nil, map[string]interface{}{"code": -32602, "message": "Invalid params"}
	}

	var data interface{}
	var err error

	switch call.Name {
	case "list_blood_groups":
		data = s.handleListBloodGroups()
	case "get_distribution_table":
		group, _ := call.Arguments["group"].(string)
		data, err = s.handleGetDistributionTable(group)
	case "run_simulation":
		// JSON numbers arrive as float64; a fractional count is rejected,
		// not truncated.
		periodsArg, ok := call.Arguments["periods"].(float64)
		if !ok || periodsArg != math.Trunc(periodsArg) {
			return nil, map[string]interface{}{"code": -32602, "message": "periods is required and must be an integer"}
		}
		seed := time.Now().UnixNano()
		if seedArg, ok := call.Arguments["seed"].(float64); ok {
			seed = int64(seedArg)
		}
		data, err = s.handleRunSimulation(int(periodsArg), seed)
	default:
		return nil, map[string]interface{}{"code": -32601, "message": "Tool not found"}
	}

	if err != nil {
		return nil, map[string]interface{}{"code": -32000, "message": err.Error()}
	}

	return map[string]interface{}{
		"content": []interface{}{
			map[string]interface{}{
				"type": "text",
				"text": s.formatResult(data),
			},
		},
	}, nil
}

func (s *Server) handleListBloodGroups() interface{} {
	groups := make([]string, 0, len(distribution.Categories))
	for _, cat := range distribution.Categories {
		if _, err := s.store.Table(cat); err == nil {
			groups = append(groups, string(cat))
		}
	}
	return map[string]interface{}{"groups": groups}
}

func (s *Server) handleGetDistributionTable(group string) (interface{}, error) {
	cat, ok := distribution.ParseCategory(group)
	if !ok {
		return nil, fmt.Errorf("unknown blood group %q, expected one of A, B, AB, O", group)
	}

	rows, err := s.store.Rows(cat)
	if err != nil {
		return nil, err
	}
	table, err := s.store.Table(cat)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"group":             string(cat),
		"rows":              rows,
		"entries":           table.Entries,
		"covers_full_range": table.Covers(),
	}, nil
}

func (s *Server) handleRunSimulation(periods int, seed int64) (interface{}, error) {
	if periods <= 0 {
		return nil, fmt.Errorf("periods must be positive, got %d", periods)
	}

	engine := simulation.NewSeededEngine(s.store.Tables(), seed)
	records, err := engine.Run(context.Background(), periods)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"seed":    seed,
		"periods": periods,
		"records": records,
		"summary": stats.Summarize(records),
	}, nil
}

func (s *Server) formatResult(data interface{}) string {
	out, _ := json.MarshalIndent(data, "", "  ")
	return string(out)
}
