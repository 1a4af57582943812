// Package mcpapi provides a stateless MCP streamable-HTTP adapter.
package mcpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/evanschultz/tagboard/internal/adapters/server/common"
	"github.com/evanschultz/tagboard/internal/board"
	"github.com/evanschultz/tagboard/internal/domain"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Config captures MCP transport configuration.
type Config struct {
	ServerName    string
	ServerVersion string
	EndpointPath  string
}

// Handler wraps one stateless MCP streamable HTTP handler.
type Handler struct {
	httpHandler http.Handler
}

// tools bundles the services every tool handler reads from.
type tools struct {
	board  common.BoardService
	tasks  common.TaskStore
	logger common.Logger
}

// NewHandler builds one stateless MCP adapter exposing board tools.
func NewHandler(cfg Config, b common.BoardService, tasks common.TaskStore, logger common.Logger) (*Handler, error) {
	if b == nil {
		return nil, fmt.Errorf("board service is required")
	}
	if tasks == nil {
		return nil, fmt.Errorf("task store is required")
	}
	if logger == nil {
		logger = common.NopLogger{}
	}
	cfg = normalizeConfig(cfg)

	mcpSrv := mcpserver.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		mcpserver.WithToolCapabilities(false),
	)
	t := tools{board: b, tasks: tasks, logger: logger}
	t.registerReadTools(mcpSrv)
	t.registerTaskTools(mcpSrv)
	t.registerDeleteTools(mcpSrv)
	t.registerViewTools(mcpSrv)

	streamable := mcpserver.NewStreamableHTTPServer(
		mcpSrv,
		mcpserver.WithEndpointPath(cfg.EndpointPath),
		mcpserver.WithStateLess(true),
	)
	return &Handler{httpHandler: streamable}, nil
}

// ServeHTTP handles one MCP streamable HTTP request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.httpHandler == nil {
		http.Error(w, "mcp handler unavailable", http.StatusServiceUnavailable)
		return
	}
	h.httpHandler.ServeHTTP(w, r)
}

// normalizeConfig applies deterministic defaults to MCP adapter config.
func normalizeConfig(cfg Config) Config {
	cfg.ServerName = strings.TrimSpace(cfg.ServerName)
	if cfg.ServerName == "" {
		cfg.ServerName = "tagboard"
	}
	cfg.ServerVersion = strings.TrimSpace(cfg.ServerVersion)
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "dev"
	}
	cfg.EndpointPath = strings.TrimSpace(cfg.EndpointPath)
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = "/mcp"
	}
	if !strings.HasPrefix(cfg.EndpointPath, "/") {
		cfg.EndpointPath = "/" + cfg.EndpointPath
	}
	cfg.EndpointPath = "/" + strings.Trim(cfg.EndpointPath, "/")
	return cfg
}

// registerReadTools registers board, tag, and filter reads.
func (t tools) registerReadTools(srv *mcpserver.MCPServer) {
	srv.AddTool(
		mcp.NewTool(
			"tagboard.get_board",
			mcp.WithDescription("Return the current board: visible columns with their tasks, tags, and pending interaction state."),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return t.boardResult(ctx, "get_board")
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"tagboard.list_tags",
			mcp.WithDescription("List every tag in first-seen order and the tags the board is filtered by."),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			snap, err := t.board.Snapshot(ctx)
			if err != nil {
				return t.toolResultFromError("list_tags", err), nil
			}
			view := common.NewBoardView(snap)
			result, err := mcp.NewToolResultJSON(map[string]any{
				"available_tags": view.AvailableTags,
				"selected_tags":  view.SelectedTags,
			})
			if err != nil {
				return nil, fmt.Errorf("encode list_tags result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"tagboard.filter_tasks",
			mcp.WithDescription("Return tasks carrying any of the given tags without changing the board filter. No tags returns every task."),
			mcp.WithArray("tags", mcp.Description("Tags to match; a task matches when it has at least one"), mcp.WithStringItems()),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			cur, err := t.tasks.Collection(ctx)
			if err != nil {
				return t.toolResultFromError("filter_tasks", err), nil
			}
			matches := board.VisibleTasks(cur.Tasks, req.GetStringSlice("tags", nil))
			result, err := mcp.NewToolResultJSON(map[string]any{
				"tasks": common.NewTaskViews(matches),
			})
			if err != nil {
				return nil, fmt.Errorf("encode filter_tasks result: %w", err)
			}
			return result, nil
		},
	)
}

// registerTaskTools registers create, update, and move.
func (t tools) registerTaskTools(srv *mcpserver.MCPServer) {
	srv.AddTool(
		mcp.NewTool(
			"tagboard.create_task",
			mcp.WithDescription("Create a task. Status defaults to todo."),
			mcp.WithString("title", mcp.Required(), mcp.Description("Task title")),
			mcp.WithArray("tags", mcp.Description("Optional tags; duplicates are rejected"), mcp.WithStringItems()),
			mcp.WithString("status", mcp.Description("Initial status"), mcp.Enum(statusNames()...)),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var args struct {
				Title  string   `json:"title"`
				Tags   []string `json:"tags"`
				Status string   `json:"status"`
			}
			if err := req.BindArguments(&args); err != nil {
				return invalidRequestToolResult(err), nil
			}
			ev, err := common.EventRequest{Type: "submitCreate", Title: args.Title, Tags: args.Tags, Status: args.Status}.Event()
			if err != nil {
				return t.toolResultFromError("create_task", err), nil
			}
			return t.taskResult(ctx, "create_task", ev)
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"tagboard.update_task",
			mcp.WithDescription("Replace the title, tags, and status of a task. Omitted fields keep their current value."),
			mcp.WithString("task_id", mcp.Required(), mcp.Description("Task identifier")),
			mcp.WithString("title", mcp.Description("New title")),
			mcp.WithArray("tags", mcp.Description("New tag list"), mcp.WithStringItems()),
			mcp.WithString("status", mcp.Description("New status"), mcp.Enum(statusNames()...)),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var args struct {
				TaskID string    `json:"task_id"`
				Title  *string   `json:"title"`
				Tags   *[]string `json:"tags"`
				Status string    `json:"status"`
			}
			if err := req.BindArguments(&args); err != nil {
				return invalidRequestToolResult(err), nil
			}
			if strings.TrimSpace(args.TaskID) == "" {
				return mcp.NewToolResultError(`invalid_request: required argument "task_id" not found`), nil
			}
			current, err := common.RequireTask(ctx, t.tasks, args.TaskID)
			if err != nil {
				return t.toolResultFromError("update_task", err), nil
			}
			wire := common.EventRequest{
				Type:   "submitEdit",
				TaskID: current.ID,
				Title:  current.Title,
				Tags:   current.Tags,
				Status: string(current.Status),
			}
			if args.Title != nil {
				wire.Title = *args.Title
			}
			if args.Tags != nil {
				wire.Tags = *args.Tags
			}
			if strings.TrimSpace(args.Status) != "" {
				wire.Status = args.Status
			}
			ev, err := wire.Event()
			if err != nil {
				return t.toolResultFromError("update_task", err), nil
			}
			return t.taskResult(ctx, "update_task", ev)
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"tagboard.move_task",
			mcp.WithDescription("Move a task to another column. Only its status changes."),
			mcp.WithString("task_id", mcp.Required(), mcp.Description("Task identifier")),
			mcp.WithString("status", mcp.Required(), mcp.Description("Target status"), mcp.Enum(statusNames()...)),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			taskID, err := req.RequireString("task_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			rawStatus, err := req.RequireString("status")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if _, err := common.RequireTask(ctx, t.tasks, taskID); err != nil {
				return t.toolResultFromError("move_task", err), nil
			}
			move, err := common.EventRequest{Type: "moveTask", TaskID: taskID, Status: rawStatus}.Event()
			if err != nil {
				return t.toolResultFromError("move_task", err), nil
			}
			return t.taskResult(ctx, "move_task", move)
		},
	)
}

// registerDeleteTools registers the two-step delete protocol.
func (t tools) registerDeleteTools(srv *mcpserver.MCPServer) {
	srv.AddTool(
		mcp.NewTool(
			"tagboard.request_delete",
			mcp.WithDescription("Ask to delete a task. Nothing is removed until tagboard.confirm_delete is called."),
			mcp.WithString("task_id", mcp.Required(), mcp.Description("Task identifier")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			taskID, err := req.RequireString("task_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if _, err := common.RequireTask(ctx, t.tasks, taskID); err != nil {
				return t.toolResultFromError("request_delete", err), nil
			}
			return t.dispatchBoard(ctx, "request_delete", board.DeleteTask{TaskID: taskID})
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"tagboard.confirm_delete",
			mcp.WithDescription("Confirm the pending delete. task_id must name the task passed to tagboard.request_delete."),
			mcp.WithString("task_id", mcp.Required(), mcp.Description("Pending task identifier")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			ev, err := common.EventRequest{Type: "confirmDelete", TaskID: req.GetString("task_id", "")}.Event()
			if err != nil {
				return t.toolResultFromError("confirm_delete", err), nil
			}
			return t.dispatchBoard(ctx, "confirm_delete", ev)
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"tagboard.cancel_delete",
			mcp.WithDescription("Cancel the pending delete."),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return t.dispatchBoard(ctx, "cancel_delete", board.CancelDelete{})
		},
	)
}

// registerViewTools registers display-only column and tag filter toggles.
func (t tools) registerViewTools(srv *mcpserver.MCPServer) {
	srv.AddTool(
		mcp.NewTool(
			"tagboard.toggle_column",
			mcp.WithDescription("Show or hide one status column. Tasks are never modified."),
			mcp.WithString("status", mcp.Required(), mcp.Description("Column status"), mcp.Enum(statusNames()...)),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			rawStatus, err := req.RequireString("status")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			ev, err := common.EventRequest{Type: "toggleColumn", Status: rawStatus}.Event()
			if err != nil {
				return t.toolResultFromError("toggle_column", err), nil
			}
			return t.dispatchBoard(ctx, "toggle_column", ev)
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"tagboard.select_tag",
			mcp.WithDescription("Toggle one tag in the board filter. Set clear=true to drop the whole filter instead."),
			mcp.WithString("tag", mcp.Description("Tag to toggle")),
			mcp.WithBoolean("clear", mcp.Description("Clear every selected tag")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			if req.GetBool("clear", false) {
				return t.dispatchBoard(ctx, "select_tag", board.ClearTagFilter{})
			}
			ev, err := common.EventRequest{Type: "selectTag", Tag: req.GetString("tag", "")}.Event()
			if err != nil {
				return t.toolResultFromError("select_tag", err), nil
			}
			return t.dispatchBoard(ctx, "select_tag", ev)
		},
	)
}

// boardResult encodes the current board view.
func (t tools) boardResult(ctx context.Context, tool string) (*mcp.CallToolResult, error) {
	snap, err := t.board.Snapshot(ctx)
	if err != nil {
		return t.toolResultFromError(tool, err), nil
	}
	result, err := mcp.NewToolResultJSON(common.NewBoardView(snap))
	if err != nil {
		return nil, fmt.Errorf("encode %s result: %w", tool, err)
	}
	return result, nil
}

// dispatchBoard applies ev and returns the resulting board view.
func (t tools) dispatchBoard(ctx context.Context, tool string, ev board.Event) (*mcp.CallToolResult, error) {
	if _, err := t.board.DispatchTask(ctx, ev); err != nil {
		return t.toolResultFromError(tool, err), nil
	}
	return t.boardResult(ctx, tool)
}

// taskResult applies ev and returns the task it produced.
func (t tools) taskResult(ctx context.Context, tool string, ev board.Event) (*mcp.CallToolResult, error) {
	task, err := t.board.DispatchTask(ctx, ev)
	if err != nil {
		return t.toolResultFromError(tool, err), nil
	}
	if task.ID == "" {
		return mcp.NewToolResultError("not_found: task no longer exists"), nil
	}
	result, err := mcp.NewToolResultJSON(common.NewTaskView(task))
	if err != nil {
		return nil, fmt.Errorf("encode %s result: %w", tool, err)
	}
	return result, nil
}

// toolResultFromError logs and maps service errors into MCP-visible tool errors.
func (t tools) toolResultFromError(tool string, err error) *mcp.CallToolResult {
	t.logger.Warn("mcp tool failed", "tool", tool, "err", err)
	return toolResultFromError(err)
}

// toolResultFromError maps service errors into MCP-visible tool errors.
func toolResultFromError(err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return mcp.NewToolResultError("unknown error")
	case common.IsNotFound(err):
		return mcp.NewToolResultError("not_found: " + err.Error())
	case common.IsConflict(err):
		return mcp.NewToolResultError("conflict: " + err.Error())
	case errors.Is(err, common.ErrInvalidRequest):
		return mcp.NewToolResultError("invalid_request: " + err.Error())
	case common.IsValidationError(err):
		return mcp.NewToolResultError("validation_failed: " + err.Error())
	default:
		return mcp.NewToolResultError("internal_error: " + err.Error())
	}
}

// invalidRequestToolResult wraps argument binding failures.
func invalidRequestToolResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError("invalid_request: " + err.Error())
}

// statusNames lists the accepted status values for tool schemas.
func statusNames() []string {
	statuses := domain.Statuses()
	out := make([]string, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, string(status))
	}
	return out
}
