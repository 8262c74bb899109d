package services

import (
	"context"
	"strings"
	"time"

	"github.com/cfoia/backend/internal/models"
	"github.com/cfoia/backend/internal/tools"
	"github.com/cfoia/backend/pkg/logger"
)

type permissionChecker interface {
	Check(ctx context.Context, orgID, userID, permission string) error
}

type auditLogger interface {
	Log(ctx context.Context, orgID string, entry models.AuditEntry) error
}

// toolPermissions maps each tool to the permission it demands. Tools missing
// from the table fall back on the registry's mutating flag.
var toolPermissions = map[string]string{
	"listTransactions":  PermissionViewFinance,
	"spendByCategory":   PermissionViewFinance,
	"dreSummary":        PermissionViewFinance,
	"cashflowSummary":   PermissionViewFinance,
	"growthOverview":    PermissionViewFinance,
	"listNotifications": PermissionViewFinance,
	"listRecurrences":   PermissionViewFinance,
	"createTransaction": PermissionEditFinance,
	"updateTransaction": PermissionEditFinance,
	"createRecurrence":  PermissionEditFinance,
}

type executorService struct {
	registry *tools.Registry
	rbac     permissionChecker
	audit    auditLogger
	clockNow func() time.Time
}

func NewExecutorService(registry *tools.Registry, rbac permissionChecker, audit auditLogger) *executorService {
	return &executorService{
		registry: registry,
		rbac:     rbac,
		audit:    audit,
		clockNow: time.Now,
	}
}

// Execute runs one tool on behalf of a user: permission check first, then the
// tool itself, then a best-effort audit record either way.
func (s *executorService) Execute(ctx context.Context, orgID, userID, conversationID, toolName string, input map[string]any) (any, error) {
	tool, err := s.registry.Get(toolName)
	if err != nil {
		return nil, err
	}

	permission, ok := toolPermissions[toolName]
	if !ok {
		permission = PermissionViewFinance
		if tool.Mutating {
			permission = PermissionEditFinance
		}
	}
	if err := s.rbac.Check(ctx, orgID, userID, permission); err != nil {
		s.logAudit(ctx, orgID, userID, conversationID, toolName, input, err)
		return nil, err
	}

	result, err := tool.Run(ctx, orgID, input)
	s.logAudit(ctx, orgID, userID, conversationID, toolName, input, err)
	return result, err
}

func (s *executorService) logAudit(ctx context.Context, orgID, userID, conversationID, toolName string, input map[string]any, runErr error) {
	action := "WHATSAPP_TOOL_" + strings.ToUpper(toolName)
	metadata := map[string]any{
		"toolName": toolName,
		"input":    input,
		"source":   "whatsapp",
		"success":  runErr == nil,
	}
	if runErr != nil {
		action += "_ERROR"
		metadata["error"] = runErr.Error()
	}

	entry := models.AuditEntry{
		UserID:    userID,
		Action:    action,
		Entity:    "whatsapp_tool",
		EntityID:  conversationID,
		Metadata:  metadata,
		CreatedAt: s.clockNow(),
	}
	if err := s.audit.Log(ctx, orgID, entry); err != nil {
		logger.FromContext(ctx).Warn("audit write failed", "tool", toolName, "error", err)
	}
}
