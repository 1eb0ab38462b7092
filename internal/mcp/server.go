package mcp

import (
	"context"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/formlens/formlens/internal/config"
	"github.com/formlens/formlens/internal/descriptions"
	"github.com/formlens/formlens/internal/form"
	"github.com/formlens/formlens/internal/pipeline"
	"github.com/formlens/formlens/internal/prompt"
	"github.com/formlens/formlens/internal/recognizer"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	pipeline  *pipeline.Service
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, svc *pipeline.Service) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("pipeline service cannot be nil")
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		pipeline:  svc,
		mcpServer: mcpServer,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	// Register form structure tool
	formStructureFileTool := mcp.NewTool(
		"form_structure_file",
		mcp.WithDescription("Build a typed form structure (sections, elements, tables) from recognizer output"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the recognizer output JSON file"),
		),
	)
	s.mcpServer.AddTool(formStructureFileTool, s.handleFormStructureFile)

	// Register form prompt tool
	formPromptFileTool := mcp.NewTool(
		"form_prompt_file",
		mcp.WithDescription("Render recognizer output into a deterministic assistant prompt"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the recognizer output JSON file"),
		),
		mcp.WithString("template",
			mcp.Description("Prompt template: claude, gpt, gemini, or empty for none (uses server default if omitted)"),
		),
		mcp.WithBoolean("include_json",
			mcp.Description("Also render the JSON structural projection"),
		),
	)
	s.mcpServer.AddTool(formPromptFileTool, s.handleFormPromptFile)

	// Register PDF text extraction tool
	formPDFTextFileTool := mcp.NewTool(
		"form_pdf_text_file",
		mcp.WithDescription("Extract positioned text rows from a born-digital PDF as recognizer input"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(formPDFTextFileTool, s.handleFormPDFTextFile)

	// Register PDF validate tool
	formValidateFileTool := mcp.NewTool(
		"form_validate_file",
		mcp.WithDescription("Validate if a file is a readable PDF within configured limits"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(formValidateFileTool, s.handleFormValidateFile)

	// Register server info tool
	formServerInfoTool := mcp.NewTool(
		"form_server_info",
		mcp.WithDescription("Get server information, configuration, and available tools"),
	)
	s.mcpServer.AddTool(formServerInfoTool, s.handleFormServerInfo)
}

// Handler functions
func (s *Server) handleFormStructureFile(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := recognizer.LoadDocument(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pipeline.StructureDocument(ctx, doc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatStructureResult(path, result)), nil
}

func (s *Server) handleFormPromptFile(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()

	template := s.config.Template // default
	if t, ok := args["template"].(string); ok {
		template = t
	}

	includeJSON := false
	if b, ok := args["include_json"].(bool); ok {
		includeJSON = b
	}

	doc, err := recognizer.LoadDocument(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pipeline.StructureDocument(ctx, doc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	renderings, err := prompt.Synthesize(result.Form, prompt.Options{
		Template:    prompt.TemplateID(template),
		IncludeJSON: includeJSON,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := renderings.TextPrompt
	if renderings.JSONPrompt != "" {
		responseText += "\n\nJSON projection:\n" + renderings.JSONPrompt
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleFormPDFTextFile(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := recognizer.ExtractPDFText(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatPDFTextResult(doc)), nil
}

func (s *Server) handleFormValidateFile(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := recognizer.ValidateFileRequest{Path: path, MaxFileSize: s.config.MaxFileSize}
	result, err := recognizer.ValidateFile(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable (%d pages, %d bytes)",
			result.Path, result.PageCount, result.Size)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleFormServerInfo(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	return mcp.NewToolResultText(s.formatServerInfo()), nil
}

// Formatting methods
func (s *Server) formatStructureResult(path string, result *pipeline.StructureResult) string {
	structure := result.Form

	text := fmt.Sprintf("Structured form document: %s\n", path)
	text += fmt.Sprintf("Analysis ID: %s\n", result.AnalysisID)
	text += fmt.Sprintf("Title: %s\n", structure.Title)
	text += fmt.Sprintf("Sections: %d\n", len(structure.Sections))
	text += fmt.Sprintf("Form elements: %d\n", structure.TotalElements)
	text += fmt.Sprintf("Tables: %d\n", len(structure.Tables))
	text += fmt.Sprintf("Processing time: %s\n", result.ProcessingTime)

	text += "\nElements by type:\n"
	for _, kind := range form.AllElementKinds() {
		text += fmt.Sprintf("  %s: %d\n", kind, structure.ElementsByType[kind])
	}

	for _, section := range structure.Sections {
		text += fmt.Sprintf("\n%s", section.ID)
		if section.Heading != "" {
			text += fmt.Sprintf(" (%s)", section.Heading)
		}
		text += fmt.Sprintf(": %d element(s), %d table(s), pages %d-%d\n",
			len(section.Elements), len(section.Tables), section.PageMin, section.PageMax)
		for _, el := range section.Elements {
			text += fmt.Sprintf("  [%s] %s", el.Kind, el.Label)
			if el.Value != "" {
				text += fmt.Sprintf(" = %s", el.Value)
			}
			text += "\n"
		}
	}

	if len(structure.PageFailures) > 0 {
		text += "\nPage failures:\n"
		for _, failure := range structure.PageFailures {
			text += fmt.Sprintf("  page %d: %s\n", failure.PageIndex, failure.Message)
		}
	}

	for _, warning := range result.Warnings {
		text += fmt.Sprintf("\nWarning: %s", warning)
	}

	return text
}

func (s *Server) formatPDFTextResult(doc *recognizer.Document) string {
	text := fmt.Sprintf("Extracted text rows from: %s\n", doc.Source)
	text += fmt.Sprintf("Pages: %d\n", len(doc.Pages))

	for _, page := range doc.Pages {
		text += fmt.Sprintf("\nPage %d: %d text row(s)\n", page.PageIndex, len(page.Blocks))
		if page.Error != "" {
			text += fmt.Sprintf("  extraction error: %s\n", page.Error)
			continue
		}
		for _, block := range page.Blocks {
			text += fmt.Sprintf("  [%.3f,%.3f,%.3f,%.3f] %s\n",
				block.BBox[0], block.BBox[1], block.BBox[2], block.BBox[3], block.Text)
		}
	}

	return text
}

func (s *Server) formatServerInfo() string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("📁 Document Directory: %s\n", s.config.DocumentDirectory)
	text += fmt.Sprintf("📏 Max File Size: %d MB\n", s.config.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("⚙️  Workers: %d, FailFast: %t, Timeout: %s\n",
		s.config.Workers, s.config.FailFast, s.config.Timeout)
	text += fmt.Sprintf("🔎 Field extraction threshold: %.2f\n", s.config.KIEThreshold)
	if s.config.Template != "" {
		text += fmt.Sprintf("📝 Default prompt template: %s\n", s.config.Template)
	}

	text += "\n🛠️  Available Tools:\n"
	for _, name := range []string{
		"form_structure_file",
		"form_prompt_file",
		"form_pdf_text_file",
		"form_validate_file",
		"form_server_info",
	} {
		text += fmt.Sprintf("\n• %s\n", name)
		text += fmt.Sprintf("  %s\n", descriptions.GetToolDescription(name))
	}

	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting form structuring MCP server in stdio mode")
		log.Printf("Document directory: %s", s.config.DocumentDirectory)
	}

	// Use the mark3labs/mcp-go server.ServeStdio function
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server in SSE mode on the configured address
func (s *Server) runServerMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting form structuring MCP server on %s", s.config.Address())
	}

	sseServer := server.NewSSEServer(s.mcpServer)
	if err := sseServer.Start(s.config.Address()); err != nil {
		return fmt.Errorf("failed to serve SSE: %w", err)
	}
	return nil
}
