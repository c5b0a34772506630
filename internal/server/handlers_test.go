package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"testing"

	"github.com/ironsheep/structure-tensor-mcp/internal/tensor"
)

// writeTestImage encodes img to a temporary PNG file and returns its path.
func writeTestImage(t *testing.T, img image.Image) string {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "handler-test-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	if err := png.Encode(tmpFile, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return tmpFile.Name()
}

// createTestImageFile creates a uniform test image file and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return writeTestImage(t, img)
}

// createEdgeImageFile creates an image that is black left of edgeX and white
// from edgeX on.
func createEdgeImageFile(t *testing.T, width, height, edgeX int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < edgeX {
				img.Set(x, y, color.Black)
			} else {
				img.Set(x, y, color.White)
			}
		}
	}
	return writeTestImage(t, img)
}

// callTool runs a tools/call request and returns the text content or the
// error response.
func callTool(t *testing.T, s *Server, name string, args interface{}) (string, *MCPError) {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		return "", resp.Error
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content: got %v", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}
	return content[0]["text"].(string), nil
}

// mustCallTool is callTool for calls that must succeed, decoding into v.
func mustCallTool(t *testing.T, s *Server, name string, args interface{}, v interface{}) {
	t.Helper()
	text, mcpErr := callTool(t, s, name, args)
	if mcpErr != nil {
		t.Fatalf("%s failed: %s (%v)", name, mcpErr.Message, mcpErr.Data)
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("failed to decode %s result: %v\n%s", name, err, text)
	}
}

func TestHandleToolsCall_LoadImage(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})

	var res struct {
		Path   string `json:"path"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	}
	mustCallTool(t, s, "tensor_load_image", map[string]interface{}{"path": imgPath}, &res)

	if res.Width != 100 || res.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", res.Width, res.Height)
	}
	if res.Path != imgPath {
		t.Errorf("path: got %s, want %s", res.Path, imgPath)
	}
	if s.cache.Len() != 1 {
		t.Errorf("cache size: got %d, want 1", s.cache.Len())
	}
}

func TestHandleToolsCall_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		tool     string
		args     interface{}
		wantCode int
	}{
		{"unknown tool", "nonexistent_tool", map[string]interface{}{}, -32000},
		{"missing file", "tensor_load_image", map[string]interface{}{"path": "/nonexistent/image.png"}, -32000},
		{"query missing file", "tensor_query", map[string]interface{}{"path": "/nonexistent/image.png", "x": 0, "y": 0}, -32000},
		{"bad argument type", "tensor_query", map[string]interface{}{"path": 12}, -32000},
		{"even kernel size", "tensor_set_kernel", map[string]interface{}{"size": 4, "sigma": 1.0}, -32000},
		{"sigma out of range", "tensor_set_kernel", map[string]interface{}{"size": 5, "sigma": 31.0}, -32000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mcpErr := callTool(t, s, tt.tool, tt.args)
			if mcpErr == nil {
				t.Fatal("expected error response")
			}
			if mcpErr.Code != tt.wantCode {
				t.Errorf("code: got %d, want %d", mcpErr.Code, tt.wantCode)
			}
		})
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleToolsCall(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`"not an object"`),
	})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("Error: got %+v, want code -32602", resp.Error)
	}
}

func TestHandleSetKernel(t *testing.T) {
	s := newTestServer(t)

	var info KernelInfo
	mustCallTool(t, s, "tensor_set_kernel", map[string]interface{}{"size": 5, "sigma": 1.5}, &info)
	if !info.Rebuilt {
		t.Error("first change should rebuild the kernel")
	}
	if info.Size != 5 || info.Sigma != 1.5 || info.Radius != 2 {
		t.Errorf("kernel: got %+v", info)
	}
	if math.Abs(info.WeightSum-1) > 1e-9 {
		t.Errorf("weight sum: got %g, want 1", info.WeightSum)
	}

	info = KernelInfo{}
	mustCallTool(t, s, "tensor_set_kernel", map[string]interface{}{"size": 5, "sigma": 1.5}, &info)
	if info.Rebuilt {
		t.Error("identical parameters should reuse the kernel")
	}

	// Rejected parameters leave the current kernel in place.
	if _, mcpErr := callTool(t, s, "tensor_set_kernel", map[string]interface{}{"size": 53, "sigma": 1.5}); mcpErr == nil {
		t.Fatal("expected error for size 53")
	}
	if k := s.kernels.Current(); k.Size() != 5 || k.Sigma() != 1.5 {
		t.Errorf("current kernel: got %d/%g, want 5/1.5", k.Size(), k.Sigma())
	}
}

func TestHandleKernelWeights(t *testing.T) {
	s := newTestServer(t)

	t.Run("current kernel", func(t *testing.T) {
		var res KernelWeights
		mustCallTool(t, s, "tensor_kernel_weights", map[string]interface{}{}, &res)
		if res.Size != 9 || len(res.Weights) != 9 {
			t.Fatalf("got size %d with %d rows, want 9", res.Size, len(res.Weights))
		}
		sum := 0.0
		for _, row := range res.Weights {
			if len(row) != 9 {
				t.Fatalf("row length: got %d, want 9", len(row))
			}
			for _, w := range row {
				sum += w
			}
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("weights sum: got %g, want 1", sum)
		}
		if res.Weights[4][4] <= res.Weights[0][0] {
			t.Error("centre weight should exceed corner weight")
		}
	})

	t.Run("override size only", func(t *testing.T) {
		var res KernelWeights
		mustCallTool(t, s, "tensor_kernel_weights", map[string]interface{}{"size": 3}, &res)
		if res.Size != 3 || res.Sigma != 2.0 {
			t.Errorf("kernel: got %d/%g, want 3/2", res.Size, res.Sigma)
		}
		if k := s.kernels.Current(); k.Size() != 3 {
			t.Errorf("current kernel size: got %d, want 3", k.Size())
		}
	})
}

func TestHandleQuery_VerticalEdge(t *testing.T) {
	s := newTestServer(t)
	imgPath := createEdgeImageFile(t, 40, 40, 20)

	var res QueryResult
	mustCallTool(t, s, "tensor_query", map[string]interface{}{
		"path": imgPath, "x": 20, "y": 20, "size": 5, "sigma": 1.5,
	}, &res)

	if res.Structure != tensor.StructureEdge {
		t.Errorf("structure: got %s, want edge", res.Structure)
	}
	if res.Display.Lambda1 <= 0 {
		t.Errorf("lambda1: got %d, want > 0", res.Display.Lambda1)
	}
	if res.Display.Lambda2 != 0 {
		t.Errorf("lambda2: got %d, want 0", res.Display.Lambda2)
	}
	if math.Abs(math.Abs(res.Display.Vectors[0][0])-1) > 1e-6 {
		t.Errorf("major eigenvector: got %v, want (±1, 0)", res.Display.Vectors[0])
	}
	if res.KernelSize != 5 || res.Sigma != 1.5 {
		t.Errorf("kernel: got %d/%g, want 5/1.5", res.KernelSize, res.Sigma)
	}
	if k := s.kernels.Current(); k.Size() != 5 {
		t.Errorf("query parameters should become current, got size %d", k.Size())
	}
}

func TestHandleQuery_BlackImage(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 20, 20, color.Black)

	var res QueryResult
	mustCallTool(t, s, "tensor_query", map[string]interface{}{"path": imgPath, "x": 10, "y": 10}, &res)

	if res.Display.Lambda1 != 0 || res.Display.Lambda2 != 0 {
		t.Errorf("eigenvalues: got %d/%d, want 0/0", res.Display.Lambda1, res.Display.Lambda2)
	}
	if res.Structure != tensor.StructureFlat {
		t.Errorf("structure: got %s, want flat", res.Structure)
	}
}

func TestHandleQuery_OutOfBounds(t *testing.T) {
	s := newTestServer(t)
	imgPath := createEdgeImageFile(t, 12, 12, 3)

	var inside, outside QueryResult
	mustCallTool(t, s, "tensor_query", map[string]interface{}{"path": imgPath, "x": 0, "y": 0}, &inside)
	mustCallTool(t, s, "tensor_query", map[string]interface{}{"path": imgPath, "x": -5, "y": -5}, &outside)

	if outside.SampleX != 0 || outside.SampleY != 0 {
		t.Errorf("sample point: got (%d,%d), want (0,0)", outside.SampleX, outside.SampleY)
	}
	if outside.X != -5 || outside.Y != -5 {
		t.Errorf("requested point: got (%d,%d), want (-5,-5)", outside.X, outside.Y)
	}
	if outside.Tensor != inside.Tensor {
		t.Errorf("tensor: got %+v, want %+v", outside.Tensor, inside.Tensor)
	}
	if outside.Display.Lambda1 != inside.Display.Lambda1 || outside.Display.Lambda2 != inside.Display.Lambda2 {
		t.Error("clamped query should match the corner query")
	}
}

func TestHandleQueryMulti(t *testing.T) {
	s := newTestServer(t)
	imgPath := createEdgeImageFile(t, 40, 40, 20)

	var res MultiQueryResult
	mustCallTool(t, s, "tensor_query_multi", map[string]interface{}{
		"path":  imgPath,
		"size":  5,
		"sigma": 1.5,
		"points": []map[string]interface{}{
			{"x": 20, "y": 20, "label": "edge"},
			{"x": 5, "y": 5, "label": "background"},
		},
	}, &res)

	if len(res.Results) != 2 {
		t.Fatalf("results: got %d, want 2", len(res.Results))
	}
	if res.Results[0].Label != "edge" || res.Results[0].Structure != tensor.StructureEdge {
		t.Errorf("first result: got %s/%s, want edge/edge", res.Results[0].Label, res.Results[0].Structure)
	}
	if res.Results[1].Label != "background" || res.Results[1].Structure != tensor.StructureFlat {
		t.Errorf("second result: got %s/%s, want background/flat", res.Results[1].Label, res.Results[1].Structure)
	}

	if _, mcpErr := callTool(t, s, "tensor_query_multi", map[string]interface{}{"path": imgPath, "points": []interface{}{}}); mcpErr == nil {
		t.Error("expected error for empty points")
	}
}

func TestHandleOverlay(t *testing.T) {
	s := newTestServer(t)
	imgPath := createEdgeImageFile(t, 40, 40, 20)

	var res struct {
		Width       int         `json:"width"`
		Height      int         `json:"height"`
		ImageBase64 string      `json:"image_base64"`
		MimeType    string      `json:"mime_type"`
		Query       QueryResult `json:"query"`
	}
	mustCallTool(t, s, "tensor_overlay", map[string]interface{}{
		"path": imgPath, "x": 20, "y": 20, "size": 5, "sigma": 1.5, "scale": 2,
	}, &res)

	if res.Width != 80 || res.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 80x80", res.Width, res.Height)
	}
	if res.MimeType != "image/png" || res.ImageBase64 == "" {
		t.Errorf("image: got mime %q with %d bytes", res.MimeType, len(res.ImageBase64))
	}
	if res.Query.Structure != tensor.StructureEdge {
		t.Errorf("query structure: got %s, want edge", res.Query.Structure)
	}

	if _, mcpErr := callTool(t, s, "tensor_overlay", map[string]interface{}{
		"path": imgPath, "x": 20, "y": 20, "footprint_color": "green",
	}); mcpErr == nil {
		t.Error("expected error for invalid footprint colour")
	}
	if _, mcpErr := callTool(t, s, "tensor_overlay", map[string]interface{}{
		"path": imgPath, "x": 20, "y": 20, "scale": 10000,
	}); mcpErr == nil {
		t.Error("expected error for scale above the maximum")
	}
}
