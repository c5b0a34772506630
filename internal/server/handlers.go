package server

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/ironsheep/structure-tensor-mcp/internal/imaging"
	"github.com/ironsheep/structure-tensor-mcp/internal/tensor"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "tensor_query").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "tensor_load_image":
		return s.handleLoadImage(args)
	case "tensor_set_kernel":
		return s.handleSetKernel(args)
	case "tensor_kernel_weights":
		return s.handleKernelWeights(args)
	case "tensor_query":
		return s.handleQuery(args)
	case "tensor_query_multi":
		return s.handleQueryMulti(args)
	case "tensor_overlay":
		return s.handleOverlay(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments. Tools whose arguments are all
// optional accept an empty payload.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	return json.Unmarshal(args, v)
}

// kernelArgs are the optional per-call kernel overrides shared by the query
// tools.
type kernelArgs struct {
	Size  *int     `json:"size,omitempty"`
	Sigma *float64 `json:"sigma,omitempty"`
}

// kernelFor resolves the kernel for a call. Omitted fields keep the current
// kernel's value; any change makes the new kernel current.
func (s *Server) kernelFor(a kernelArgs) (*tensor.Kernel, error) {
	cur := s.kernels.Current()
	size, sigma := cur.Size(), cur.Sigma()
	if a.Size != nil {
		size = *a.Size
	}
	if a.Sigma != nil {
		sigma = *a.Sigma
	}

	k, rebuilt, err := s.kernels.Get(size, sigma)
	if err != nil {
		return nil, err
	}
	if rebuilt && s.cfg.Debug() {
		log.Printf("Rebuilt kernel: size=%d sigma=%g", k.Size(), k.Sigma())
	}
	return k, nil
}

// === Image Handlers ===

type loadImageArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleLoadImage(args json.RawMessage) (interface{}, error) {
	var a loadImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.Summarize(s.cache, a.Path)
}

// === Kernel Handlers ===

// KernelInfo describes a kernel without its weight table.
type KernelInfo struct {
	Size      int     `json:"size"`
	Sigma     float64 `json:"sigma"`
	Radius    int     `json:"radius"`
	WeightSum float64 `json:"weight_sum"`
	Rebuilt   bool    `json:"rebuilt,omitempty"`
}

// KernelWeights is a kernel with its weight table, one row per dy from
// -radius to radius.
type KernelWeights struct {
	KernelInfo
	Weights [][]float64 `json:"weights"`
}

func kernelInfo(k *tensor.Kernel) KernelInfo {
	return KernelInfo{
		Size:      k.Size(),
		Sigma:     k.Sigma(),
		Radius:    k.Radius(),
		WeightSum: k.Sum(),
	}
}

type setKernelArgs struct {
	Size  int     `json:"size"`
	Sigma float64 `json:"sigma"`
}

func (s *Server) handleSetKernel(args json.RawMessage) (interface{}, error) {
	var a setKernelArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	k, rebuilt, err := s.kernels.Get(a.Size, a.Sigma)
	if err != nil {
		return nil, err
	}
	if rebuilt && s.cfg.Debug() {
		log.Printf("Rebuilt kernel: size=%d sigma=%g", k.Size(), k.Sigma())
	}
	info := kernelInfo(k)
	info.Rebuilt = rebuilt
	return info, nil
}

func (s *Server) handleKernelWeights(args json.RawMessage) (interface{}, error) {
	var a kernelArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	k, err := s.kernelFor(a)
	if err != nil {
		return nil, err
	}

	flat := k.Weights()
	rows := make([][]float64, k.Size())
	for i := range rows {
		rows[i] = flat[i*k.Size() : (i+1)*k.Size()]
	}
	return KernelWeights{KernelInfo: kernelInfo(k), Weights: rows}, nil
}

// === Query Handlers ===

// QueryResult is a structure tensor analysis with its classification.
type QueryResult struct {
	Label string `json:"label,omitempty"`
	tensor.Analysis
	Structure tensor.StructureKind `json:"structure"`
	Pixel     imaging.PixelSample  `json:"pixel"`
}

func (s *Server) analyze(img *imaging.LoadedImage, k *tensor.Kernel, x, y int, label string) QueryResult {
	a := tensor.Analyze(img.Field, k, x, y)
	return QueryResult{
		Label:     label,
		Analysis:  a,
		Structure: tensor.Classify(a.Display, a.Coherence, s.cfg.FlatThreshold, s.cfg.EdgeCoherence),
		Pixel:     imaging.SamplePixel(img, x, y),
	}
}

type queryArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	kernelArgs
}

func (s *Server) handleQuery(args json.RawMessage) (interface{}, error) {
	var a queryArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	k, err := s.kernelFor(a.kernelArgs)
	if err != nil {
		return nil, err
	}
	return s.analyze(img, k, a.X, a.Y, ""), nil
}

type queryMultiArgs struct {
	Path   string `json:"path"`
	Points []struct {
		X     int    `json:"x"`
		Y     int    `json:"y"`
		Label string `json:"label,omitempty"`
	} `json:"points"`
	kernelArgs
}

// MultiQueryResult holds one result per requested point, in request order.
type MultiQueryResult struct {
	Results []QueryResult `json:"results"`
}

func (s *Server) handleQueryMulti(args json.RawMessage) (interface{}, error) {
	var a queryMultiArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Points) == 0 {
		return nil, fmt.Errorf("at least one point is required")
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	k, err := s.kernelFor(a.kernelArgs)
	if err != nil {
		return nil, err
	}

	results := make([]QueryResult, len(a.Points))
	for i, p := range a.Points {
		results[i] = s.analyze(img, k, p.X, p.Y, p.Label)
	}
	return &MultiQueryResult{Results: results}, nil
}

type overlayArgs struct {
	Path           string  `json:"path"`
	X              int     `json:"x"`
	Y              int     `json:"y"`
	ArrowLength    float64 `json:"arrow_length"`
	Thickness      float64 `json:"thickness"`
	FootprintColor string  `json:"footprint_color"`
	Scale          float64 `json:"scale"`
	Dim            float64 `json:"dim"`
	kernelArgs
}

// OverlayResponse carries the rendered image and the query it shows.
type OverlayResponse struct {
	*imaging.OverlayResult
	Query QueryResult `json:"query"`
}

func (s *Server) handleOverlay(args json.RawMessage) (interface{}, error) {
	var a overlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	k, err := s.kernelFor(a.kernelArgs)
	if err != nil {
		return nil, err
	}

	q := s.analyze(img, k, a.X, a.Y, "")
	rendered, err := imaging.RenderOverlay(img.Source, q.Analysis, imaging.OverlayOptions{
		ArrowLength:    a.ArrowLength,
		Thickness:      a.Thickness,
		FootprintColor: a.FootprintColor,
		Scale:          a.Scale,
		Dim:            a.Dim,
	})
	if err != nil {
		return nil, err
	}
	return &OverlayResponse{OverlayResult: rendered, Query: q}, nil
}
