package server

import "github.com/ironsheep/structure-tensor-mcp/internal/imaging"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func kernelProperties(optional bool) (size, sigma map[string]interface{}) {
	suffix := ""
	if optional {
		suffix = " Defaults to the current kernel."
	}
	size = map[string]interface{}{
		"type":        "integer",
		"description": "Odd Gaussian window side length in pixels (1-51)." + suffix,
		"minimum":     1,
		"maximum":     51,
	}
	sigma = map[string]interface{}{
		"type":        "number",
		"description": "Gaussian standard deviation in pixels (0.1-30)." + suffix,
		"minimum":     0.1,
		"maximum":     30,
	}
	return size, sigma
}

func coordinateProperty(axis string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": axis + " coordinate of the query point (0-based). Values outside the image are clamped.",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	size, sigma := kernelProperties(false)
	optSize, optSigma := kernelProperties(true)

	return []Tool{
		{
			Name:        "tensor_load_image",
			Description: "Load an image, compute its gradient field once, and return its dimensions. Later queries on the same path reuse the field.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "tensor_set_kernel",
			Description: "Set the current Gaussian window used by queries that do not pass their own size and sigma.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"size":  size,
					"sigma": sigma,
				},
				"required": []string{"size", "sigma"},
			},
		},
		{
			Name:        "tensor_kernel_weights",
			Description: "Return the normalized Gaussian weight table for a kernel, row by row.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"size":  optSize,
					"sigma": optSigma,
				},
			},
		},
		{
			Name:        "tensor_query",
			Description: "Compute the structure tensor at a point and its eigendecomposition. Returns lambda1 >= lambda2 (divided by 1000), the matching unit eigenvectors, coherence, and a flat/edge/corner classification.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty(),
					"x":     coordinateProperty("X"),
					"y":     coordinateProperty("Y"),
					"size":  optSize,
					"sigma": optSigma,
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "tensor_query_multi",
			Description: "Run tensor_query at several points of the same image with one kernel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"points": map[string]interface{}{
						"type":        "array",
						"description": "Query points",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer"},
								"y":     map[string]interface{}{"type": "integer"},
								"label": map[string]interface{}{"type": "string", "description": "Optional label echoed in the result"},
							},
							"required": []string{"x", "y"},
						},
					},
					"size":  optSize,
					"sigma": optSigma,
				},
				"required": []string{"path", "points"},
			},
		},
		{
			Name:        "tensor_overlay",
			Description: "Render the query result over the image as base64 PNG: eigenvector arrows from the query point and the kernel window outline.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty(),
					"x":     coordinateProperty("X"),
					"y":     coordinateProperty("Y"),
					"size":  optSize,
					"sigma": optSigma,
					"arrow_length": map[string]interface{}{
						"type":        "number",
						"description": "Length in pixels of the major arrow. Default 20",
						"default":     20,
					},
					"thickness": map[string]interface{}{
						"type":        "number",
						"description": "Arrow stroke width in pixels. Default 1",
						"default":     1,
					},
					"footprint_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color of the kernel window outline. Default #00C853",
						"default":     "#00C853",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor for the output image (up to 8). Default 1.0",
						"default":     1.0,
						"minimum":     0,
						"maximum":     imaging.MaxOverlayScale,
					},
					"dim": map[string]interface{}{
						"type":        "number",
						"description": "Darken the image under the overlay, 0 (unchanged) to 1 (black). Default 0",
						"default":     0,
						"minimum":     0,
						"maximum":     1,
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
