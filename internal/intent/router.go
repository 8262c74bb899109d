package intent

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/cfoia/backend/internal/dto"
	"github.com/cfoia/backend/internal/errs"
)

// Ordered natural-language rules. Priority is load-bearing: earlier rules
// pre-empt later ones, and the transaction-creation rule only runs last.
var (
	reMRR       = regexp.MustCompile(`mrr|receita.*recorrente|mensal.*recorrente`)
	reDRE       = regexp.MustCompile(`dre|resultado|demonstrativo|receita.*despesa`)
	reSpend     = regexp.MustCompile(`gasto|despesa|saída.*categoria|categoria.*gasto`)
	reCashflow  = regexp.MustCompile(`caixa|fluxo.*caixa|projeção.*caixa`)
	reCreate    = regexp.MustCompile(`(?:lança|lançar|adiciona|adicionar|cadastra|cadastrar)\s+([\d.,]+)\s+(.+)`)
	reRevenue   = regexp.MustCompile(`receita|entrada|pagamento.*receb`)
	reNotifs    = regexp.MustCompile(`notifica|alerta|lembrete`)
	reMonth     = regexp.MustCompile(`\d{4}-\d{2}`)
	reISODate   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reAnyDate   = regexp.MustCompile(`(hoje|ontem|amanhã|\d{4}-\d{2}-\d{2})`)
	reDaysToken = regexp.MustCompile(`(\d+)\s*dias?`)
)

var slashCommands = []string{
	"/ajuda", "/help", "/mrr", "/dre", "/gastos", "/caixa", "/lancar",
	"/lançar", "/notifs", "/notificacoes", "/confirmar", "/sim", "/confirm",
	"/yes", "/cancelar", "/nao", "/não", "/cancel", "/no",
}

// Parse maps raw message text to an intent. It is pure: same text and clock,
// same result, no I/O. A nil intent with nil error means no rule matched.
func Parse(text string, now time.Time) (*dto.ParsedIntent, error) {
	trimmed := strings.ToLower(strings.TrimSpace(text))
	if trimmed == "" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, "/") {
		return parseSlashCommand(trimmed, now)
	}

	return parseNaturalLanguage(trimmed, now), nil
}

// SuggestCommand returns the closest known slash command for an unknown one,
// or "" when nothing is close enough.
func SuggestCommand(command string) string {
	best := ""
	bestDist := 3 // more than two edits away is not a plausible typo
	for _, known := range slashCommands {
		dist := levenshtein.ComputeDistance(command, known)
		if dist < bestDist {
			best = known
			bestDist = dist
		}
	}
	return best
}

func parseSlashCommand(text string, now time.Time) (*dto.ParsedIntent, error) {
	parts := strings.Fields(text)
	command := parts[0]
	args := parts[1:]

	switch command {
	case "/ajuda", "/help":
		return &dto.ParsedIntent{Tool: "help", Input: map[string]any{}}, nil

	case "/mrr":
		return &dto.ParsedIntent{Tool: "growthOverview", Input: map[string]any{}}, nil

	case "/dre":
		month := currentMonth(now)
		if len(args) > 0 {
			month = args[0]
		}
		return &dto.ParsedIntent{Tool: "dreSummary", Input: map[string]any{"month": month}}, nil

	case "/gastos":
		month := currentMonth(now)
		if len(args) > 0 {
			month = args[0]
		}
		return &dto.ParsedIntent{Tool: "spendByCategory", Input: map[string]any{"month": month}}, nil

	case "/caixa":
		days := 30
		if len(args) > 0 {
			if parsed, err := strconv.Atoi(args[0]); err == nil {
				days = parsed
			}
		}
		return &dto.ParsedIntent{Tool: "cashflowSummary", Input: map[string]any{"projectionDays": days}}, nil

	case "/lancar", "/lançar":
		input, err := parseLancarArgs(args, now)
		if err != nil {
			return nil, err
		}
		return &dto.ParsedIntent{
			Tool:                 "createTransaction",
			Input:                input,
			RequiresConfirmation: true, // writes always confirm
		}, nil

	case "/notifs", "/notificacoes":
		return &dto.ParsedIntent{Tool: "listNotifications", Input: map[string]any{"unreadOnly": true}}, nil

	case "/confirmar", "/sim", "/confirm", "/yes":
		return &dto.ParsedIntent{Tool: "confirmPendingAction", Input: map[string]any{}}, nil

	case "/cancelar", "/nao", "/não", "/cancel", "/no":
		return &dto.ParsedIntent{Tool: "cancelPendingAction", Input: map[string]any{}}, nil

	default:
		return nil, nil
	}
}

func parseNaturalLanguage(text string, now time.Time) *dto.ParsedIntent {
	if reMRR.MatchString(text) {
		return &dto.ParsedIntent{Tool: "growthOverview", Input: map[string]any{}}
	}

	if reDRE.MatchString(text) {
		month := currentMonth(now)
		if m := reMonth.FindString(text); m != "" {
			month = m
		}
		return &dto.ParsedIntent{Tool: "dreSummary", Input: map[string]any{"month": month}}
	}

	if reSpend.MatchString(text) {
		month := currentMonth(now)
		if m := reMonth.FindString(text); m != "" {
			month = m
		}
		from, to := monthBounds(month, now)
		return &dto.ParsedIntent{Tool: "spendByCategory", Input: map[string]any{"from": from, "to": to}}
	}

	if reCashflow.MatchString(text) {
		days := 30
		if m := reDaysToken.FindStringSubmatch(text); m != nil {
			if parsed, err := strconv.Atoi(m[1]); err == nil {
				days = parsed
			}
		}
		return &dto.ParsedIntent{Tool: "cashflowSummary", Input: map[string]any{"projectionDays": days}}
	}

	// Transaction creation runs only after every other rule missed. The
	// extraction is heuristic: descriptions starting with digits can be
	// misread as a second amount.
	if m := reCreate.FindStringSubmatch(text); m != nil {
		amount, err := parseAmount(m[1])
		if err == nil {
			description := strings.TrimSpace(m[2])
			date := "hoje"
			if d := reAnyDate.FindString(text); d != "" {
				date = d
			}
			description = strings.TrimSpace(reAnyDate.ReplaceAllString(description, ""))

			txType := "OUT"
			if reRevenue.MatchString(text) {
				txType = "IN"
			}

			return &dto.ParsedIntent{
				Tool: "createTransaction",
				Input: map[string]any{
					"amountCents": amount,
					"description": description,
					"type":        txType,
					"date":        resolveDate(date, now),
				},
				RequiresConfirmation: true,
			}
		}
	}

	if reNotifs.MatchString(text) {
		return &dto.ParsedIntent{Tool: "listNotifications", Input: map[string]any{"unreadOnly": true}}
	}

	return nil
}

// parseLancarArgs handles "/lancar 1200 meta ads hoje conta:itau tipo:out".
// The first bare token is the amount; date keywords, conta:/tipo: prefixes and
// ISO dates are extracted, everything else accumulates into the description.
func parseLancarArgs(args []string, now time.Time) (map[string]any, error) {
	input := map[string]any{}

	if len(args) == 0 {
		return nil, errs.NewValidationError("faltam dados: valor e descrição são obrigatórios")
	}
	if amount, err := parseAmount(args[0]); err == nil {
		input["amountCents"] = amount
	}

	var descriptionParts []string
	foundDate := false

	for _, arg := range args[1:] {
		switch {
		case arg == "hoje" || arg == "ontem" || arg == "amanhã" || arg == "amanha":
			input["date"] = resolveDate(arg, now)
			foundDate = true
		case strings.HasPrefix(arg, "conta:"):
			input["accountName"] = strings.TrimSpace(strings.TrimPrefix(arg, "conta:"))
		case strings.HasPrefix(arg, "tipo:"):
			txType := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(arg, "tipo:")))
			if txType != "IN" {
				txType = "OUT"
			}
			input["type"] = txType
		case reISODate.MatchString(arg):
			input["date"] = arg
			foundDate = true
		case arg != "in" && arg != "out":
			descriptionParts = append(descriptionParts, arg)
		}
	}

	if len(descriptionParts) > 0 {
		input["description"] = strings.Join(descriptionParts, " ")
	}
	if !foundDate {
		input["date"] = now.Format("2006-01-02")
	}
	if _, ok := input["type"]; !ok {
		input["type"] = "OUT"
	}

	if input["amountCents"] == nil || input["description"] == nil {
		return nil, errs.NewValidationError("faltam dados: valor e descrição são obrigatórios")
	}

	return input, nil
}

// parseAmount reads PT-BR money tokens: a comma is the decimal separator and
// dots group thousands ("1.200,00"). Without a comma the dot is a decimal
// point ("45.90").
func parseAmount(token string) (int64, error) {
	normalized := token
	if strings.Contains(normalized, ",") {
		normalized = strings.ReplaceAll(normalized, ".", "")
		normalized = strings.Replace(normalized, ",", ".", 1)
	}
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(value * 100)), nil
}

func currentMonth(now time.Time) string {
	return now.Format("2006-01")
}

func monthBounds(month string, now time.Time) (string, string) {
	parsed, err := time.Parse("2006-01", month)
	if err != nil {
		parsed = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	from := time.Date(parsed.Year(), parsed.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return from.Format("2006-01-02"), to.Format("2006-01-02")
}

func resolveDate(token string, now time.Time) string {
	switch token {
	case "hoje":
		return now.Format("2006-01-02")
	case "ontem":
		return now.AddDate(0, 0, -1).Format("2006-01-02")
	case "amanhã", "amanha":
		return now.AddDate(0, 0, 1).Format("2006-01-02")
	}
	if reISODate.MatchString(token) {
		return token
	}
	return now.Format("2006-01-02")
}
