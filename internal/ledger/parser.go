// Package ledger discovers and parses JSONL ledger files into income,
// expense and liability records.
package ledger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/fcast/internal/model"
)

// Accepted date layouts, tried in order.
var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05", "2006-01"}

// ParseResult holds the output of parsing a single ledger file.
type ParseResult struct {
	Ledger      model.Ledger
	Records     int
	ParseErrors int
	Err         error
}

// ParseFile reads a ledger JSONL file. Lines are routed by their top-level
// "type" field; unknown types are skipped and malformed lines are counted in
// ParseErrors without failing the file. Records sharing an id keep the last
// occurrence. Records without an id get a UUIDv5 derived from path and line.
func ParseFile(df DiscoveredFile) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	var (
		parseErrors int
		lineNo      int
		order       []string
		seen        = make(map[string]bool)
		txns        = make(map[string]model.Transaction)
		liabs       = make(map[string]model.Liability)
	)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		recType := extractTopLevelType(line)
		if recType == "" {
			continue
		}

		var raw RawRecord
		if err := json.Unmarshal(line, &raw); err != nil {
			parseErrors++
			continue
		}
		id := raw.ID
		if id == "" {
			id = uuid.NewSHA1(uuid.NameSpaceURL, fmt.Appendf(nil, "%s#%d", df.Path, lineNo)).String()
		}

		switch recType {
		case "income", "expense":
			t, err := toTransaction(raw, model.TransactionKind(recType))
			if err != nil {
				parseErrors++
				continue
			}
			t.ID, t.Account, t.FilePath = id, df.Account, df.Path
			delete(liabs, id)
			txns[id] = t

		case "liability":
			l, err := toLiability(raw)
			if err != nil {
				parseErrors++
				continue
			}
			l.ID, l.Account, l.FilePath = id, df.Account, df.Path
			delete(txns, id)
			liabs[id] = l
		}

		if !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}

	if err := scanner.Err(); err != nil {
		return ParseResult{Err: err}
	}

	var led model.Ledger
	for _, id := range order {
		if t, ok := txns[id]; ok {
			if t.Kind == model.KindIncome {
				led.Income = append(led.Income, t)
			} else {
				led.Expenses = append(led.Expenses, t)
			}
			continue
		}
		if l, ok := liabs[id]; ok && l.Balance > 0 {
			led.Liabilities = append(led.Liabilities, l)
		}
	}

	return ParseResult{
		Ledger:      led,
		Records:     led.Len(),
		ParseErrors: parseErrors,
	}
}

func toTransaction(raw RawRecord, kind model.TransactionKind) (model.Transaction, error) {
	date, err := parseDate(raw.Date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("date: %w", err)
	}
	t := model.Transaction{
		Kind:        kind,
		Date:        date,
		Amount:      raw.Amount.Abs(),
		Description: strings.TrimSpace(raw.Description),
		Category:    strings.TrimSpace(raw.Category),
		Recurrence:  model.ParseRecurrence(raw.Recurrence),
	}
	if raw.RecurrenceEndDate != "" {
		end, err := parseDate(raw.RecurrenceEndDate)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("recurrence_end_date: %w", err)
		}
		t.RecurrenceEndDate = &end
	}
	return t, nil
}

func toLiability(raw RawRecord) (model.Liability, error) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		name = strings.TrimSpace(raw.Description)
	}
	if name == "" {
		return model.Liability{}, errors.New("liability without a name")
	}
	return model.Liability{
		Name:           name,
		Category:       model.ParseLiabilityCategory(raw.Category),
		Balance:        raw.Balance.InexactFloat64(),
		InterestRate:   raw.InterestRate.InexactFloat64(),
		MinimumPayment: raw.MinimumPayment.InexactFloat64(),
	}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("missing")
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// typeKey is the byte sequence for a JSON key named "type" (with quotes).
var typeKey = []byte(`"type"`)

// extractTopLevelType finds the top-level "type" field in a JSONL line.
// Tracks brace depth and string boundaries so nested "type" keys are ignored.
func extractTopLevelType(line []byte) string {
	depth := 0
	for i := 0; i < len(line); {
		switch line[i] {
		case '"':
			if depth == 1 && bytes.HasPrefix(line[i:], typeKey) {
				val, isKey := classifyType(line, i+len(typeKey))
				if isKey {
					return val
				}
			}
			i = skipJSONString(line, i)
		case '{':
			depth++
			i++
		case '}':
			depth--
			i++
		default:
			i++
		}
	}
	return ""
}

// classifyType checks whether pos follows a JSON key (expects : then value).
// isKey=false means "type" appeared as a value, not a key.
func classifyType(line []byte, pos int) (val string, isKey bool) {
	i := skipSpaces(line, pos)
	if i >= len(line) || line[i] != ':' {
		return "", false
	}
	i = skipSpaces(line, i+1)
	if i >= len(line) || line[i] != '"' {
		return "", true
	}
	i++

	end := bytes.IndexByte(line[i:], '"')
	if end < 0 || end > 20 {
		return "", true
	}
	switch v := strings.ToLower(string(line[i : i+end])); v {
	case "income", "expense", "liability":
		return v, true
	case "debt":
		return "liability", true
	}
	return "", true
}

// skipJSONString advances past a JSON string starting at the opening quote.
//
//nolint:gosec // manual bounds checking throughout
func skipJSONString(line []byte, i int) int {
	i++
	for i < len(line) {
		switch line[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1
		default:
			i++
		}
	}
	return i
}

func skipSpaces(line []byte, i int) int {
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return i
}
