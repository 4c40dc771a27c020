package broadcast

import "strings"

// ExtractPlaceholders returns the distinct placeholder names appearing in
// text as {name} tokens, in first-seen order. Braces pair by simple
// first-'{'/first-'}' matching and there is no escaping mechanism, so a
// literal '{' always opens a placeholder.
func ExtractPlaceholders(text string) []string {
	var names []string
	seen := make(map[string]bool)

	for i := 0; i < len(text); {
		open := strings.IndexByte(text[i:], '{')
		if open == -1 {
			break
		}
		open += i

		closing := strings.IndexByte(text[open+1:], '}')
		if closing == -1 {
			break
		}
		closing += open + 1

		name := text[open+1 : closing]
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}

		i = closing + 1
	}

	return names
}

// Render replaces every {name} occurrence in text with the row's value for
// name, for each name in placeholders. Placeholders missing from the row are
// left unreplaced. The scan is single-pass over the input, so a substituted
// value that itself contains braces is never substituted again; rendering an
// already-rendered string is a no-op.
func Render(text string, row Row, placeholders []string) string {
	if len(placeholders) == 0 {
		return text
	}

	wanted := make(map[string]bool, len(placeholders))
	for _, name := range placeholders {
		wanted[name] = true
	}

	var sb strings.Builder
	sb.Grow(len(text))

	for i := 0; i < len(text); {
		open := strings.IndexByte(text[i:], '{')
		if open == -1 {
			sb.WriteString(text[i:])
			break
		}
		open += i

		closing := strings.IndexByte(text[open+1:], '}')
		if closing == -1 {
			sb.WriteString(text[i:])
			break
		}
		closing += open + 1

		name := text[open+1 : closing]
		value, inRow := row[name]
		if wanted[name] && inRow {
			sb.WriteString(text[i:open])
			sb.WriteString(value)
		} else {
			sb.WriteString(text[i : closing+1])
		}

		i = closing + 1
	}

	return sb.String()
}

// PlaceholdersNotInColumns returns every placeholder name that is not a
// dataset column. A non-empty result means the templates reference unknown
// columns and the run must not start.
func PlaceholdersNotInColumns(placeholders, columns []string) []string {
	known := make(map[string]bool, len(columns))
	for _, col := range columns {
		known[col] = true
	}

	var unknown []string
	for _, name := range placeholders {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}

	return unknown
}

// AppendPlaceholder appends a {column} token to text, separated by a single
// space when text is non-empty. Used by editors that insert column tokens on
// click.
func AppendPlaceholder(text, column string) string {
	token := "{" + column + "}"
	if text == "" {
		return token
	}
	return text + " " + token
}
