package api

import (
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rotisserie/eris"

	"github.com/hazyhaar/greenmeds/pkg/kit"
)

// RegisterMCPTools registers the four GreenMeds MCP tools on the server.
func RegisterMCPTools(srv *server.MCPServer, eps Endpoints) {
	registerLookup(srv, eps.Lookup)
	registerResolveBatch(srv, eps.Batch)
	registerListMedicines(srv, eps.List)
	registerScoreMedicine(srv, eps.Score)
}

func registerLookup(srv *server.MCPServer, ep kit.Endpoint) {
	tool := mcp.NewTool("lookup",
		mcp.WithDescription("Resolve a possibly misspelled medicine name (dosage and form words are ignored) and report its eco-toxicity when the match is exact."),
		mcp.WithString("input", mcp.Required(), mcp.Description("Free-text medicine name, e.g. 'Ibuprofn 200mg'")),
		mcp.WithNumber("pick", mcp.Description("1-based candidate to report when the input is ambiguous")),
	)

	kit.RegisterMCPTool(srv, tool, ep, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		input, _ := args["input"].(string)
		if strings.TrimSpace(input) == "" {
			return nil, eris.New("input is required")
		}
		pick, _ := args["pick"].(float64)
		if pick != math.Trunc(pick) {
			return nil, eris.Errorf("pick must be a whole number, got %v", pick)
		}
		return &kit.MCPDecodeResult{Request: &LookupRequest{Input: input, Pick: int(pick)}}, nil
	})
}

func registerResolveBatch(srv *server.MCPServer, ep kit.Endpoint) {
	tool := mcp.NewTool("resolve_batch",
		mcp.WithDescription("Resolve up to 100 medicine names at once. Results keep input order."),
		mcp.WithString("inputs", mcp.Required(), mcp.Description("Comma-separated list of medicine names")),
	)

	kit.RegisterMCPTool(srv, tool, ep, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		raw, _ := req.GetArguments()["inputs"].(string)
		var inputs []string
		for _, in := range strings.Split(raw, ",") {
			if in = strings.TrimSpace(in); in != "" {
				inputs = append(inputs, in)
			}
		}
		return &kit.MCPDecodeResult{Request: &BatchRequest{Inputs: inputs}}, nil
	})
}

func registerListMedicines(srv *server.MCPServer, ep kit.Endpoint) {
	tool := mcp.NewTool("list_medicines",
		mcp.WithDescription("List catalog medicines with their toxicity, disposal and compost attributes."),
		mcp.WithString("toxicity", mcp.Description("Only list this toxicity level (Low, Medium, High)")),
	)

	kit.RegisterMCPTool(srv, tool, ep, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		level, _ := req.GetArguments()["toxicity"].(string)
		return &kit.MCPDecodeResult{Request: &ListRequest{Toxicity: level}}, nil
	})
}

func registerScoreMedicine(srv *server.MCPServer, ep kit.Endpoint) {
	tool := mcp.NewTool("score_medicine",
		mcp.WithDescription("Eco-toxicity report for a medicine given by its exact catalog name."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Catalog medicine name (case-insensitive)")),
	)

	kit.RegisterMCPTool(srv, tool, ep, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		name, _ := req.GetArguments()["name"].(string)
		return &kit.MCPDecodeResult{Request: &ScoreRequest{Name: name}}, nil
	})
}
