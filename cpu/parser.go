// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Operand is a parsed instruction operand. The mode is the syntactic form
// only; whether a mnemonic accepts it is decided by the assembler.
type Operand struct {
	Text     string   // Source text, after equate substitution.
	Mode     Mode     // Syntactic addressing mode.
	Register Register // Register, for MODE_REGISTER.
	Value    uint16   // Immediate, address, or index offset.
	Label    string   // Label name, for MODE_LABEL.
}

// Statement is a parsed source line.
type Statement struct {
	LineNo    int       // Source line number, from 1.
	Line      string    // Source text, without the comment.
	Label     string    // Label defined on this line, if any.
	HasOpcode bool      // Set if the line has an instruction.
	Mnemonic  Mnemonic  // Instruction mnemonic.
	Operands  []Operand // Instruction operands.
	Words     []string  // Instruction words, as written.
}

// Parser turns Popola assembly source into statements.
type Parser struct {
	Verbose bool              // If set, verbosely logs the parser actions.
	Equate  map[string]string // Map of equates.

	predefine map[string]string
}

// Predefine defines an equate visible to every parse.
func (p *Parser) Predefine(equ string, value string) {
	if p.predefine == nil {
		p.predefine = map[string]string{equ: value}
	} else {
		p.predefine[equ] = value
	}
}

var (
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
	reCharacter  = regexp.MustCompile(`'(\\.|[^'\\])'`)
	reLabel      = regexp.MustCompile(`^([^\s:;]+)\s*:`)
	reIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reIndexPlus  = regexp.MustCompile(`\s*\+\s*`)
)

// Parse parses every line of the input. Lines with errors are reported
// in an *ErrAssembly, in line order, and parsing continues past them.
func (p *Parser) Parse(input io.Reader) (stmts []Statement, err error) {
	scanner := bufio.NewScanner(input)

	p.Equate = map[string]string{"LINENO": "0"}
	maps.Copy(p.Equate, p.predefine)

	var errs []error
	var lineno int
	for scanner.Scan() {
		text := scanner.Text()
		lineno++

		if p.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line := strings.TrimSpace(stripComment(text))
		stmt, ok, line_err := p.parseLine(line, lineno)
		if line_err != nil {
			errs = append(errs, ErrSyntax{LineNo: lineno, Line: line, Err: line_err})
		}
		if ok {
			stmts = append(stmts, stmt)
		}
	}

	err = scanner.Err()
	if err != nil {
		errs = append(errs, err)
	}

	if len(errs) != 0 {
		err = &ErrAssembly{Errs: errs}
	}

	return
}

// stripComment removes a ';' comment, ignoring ';' in character literals.
func stripComment(text string) string {
	quoted, escaped := false, false
	for n, r := range text {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && quoted:
			escaped = true
		case r == '\'':
			quoted = !quoted
		case r == ';' && !quoted:
			return text[:n]
		}
	}
	return text
}

// parseLine parses a single line, without its comment. It returns ok if
// the line produced a statement, which may happen even when err is set.
func (p *Parser) parseLine(line string, lineno int) (stmt Statement, ok bool, err error) {
	p.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	if len(line) == 0 {
		return
	}

	line, err = p.expand(line)
	if err != nil {
		return
	}

	stmt = Statement{LineNo: lineno, Line: line}

	words := strings.Fields(line)
	if words[0] == ".equ" {
		err = p.parseEquate(words)
		return
	}

	// label:
	match := reLabel.FindStringSubmatch(line)
	if match != nil {
		label := match[1]
		if !reIdentifier.MatchString(label) {
			err = ErrLabelSyntax
			return
		}
		stmt.Label = label
		ok = true
		line = strings.TrimSpace(line[len(match[0]):])
		if len(line) == 0 {
			return
		}
	}

	// mnemonic operand, operand...
	name, rest := line, ""
	if n := strings.IndexFunc(line, unicode.IsSpace); n >= 0 {
		name, rest = line[:n], strings.TrimSpace(line[n:])
	}

	var operands []string
	mn, found := ParseMnemonic(name)
	if !found {
		// LDr src, STr dst
		upper := strings.ToUpper(name)
		if len(upper) == 3 && (strings.HasPrefix(upper, "LD") || strings.HasPrefix(upper, "ST")) {
			_, found = ParseRegister(upper[2:])
			mn, _ = ParseMnemonic(upper[:2])
			operands = append(operands, upper[2:])
		}
		if !found {
			err = ErrOpcodeInvalid
			return
		}
	}

	words, err = splitOperands(rest)
	if err != nil {
		return
	}
	operands = append(operands, words...)

	var parsed []Operand
	for _, word := range operands {
		var operand Operand
		operand, err = p.parseOperand(word)
		if err != nil {
			return
		}
		parsed = append(parsed, operand)
	}

	stmt.HasOpcode = true
	stmt.Mnemonic = mn
	stmt.Operands = parsed
	stmt.Words = append([]string{name}, words...)
	ok = true

	return
}

// splitOperands splits an operand list on commas and spaces.
func splitOperands(rest string) (words []string, err error) {
	if len(rest) == 0 {
		return
	}

	rest = reIndexPlus.ReplaceAllString(rest, "+")
	for _, field := range strings.Split(rest, ",") {
		field = strings.TrimSpace(field)
		if len(field) == 0 {
			err = ErrOperandMissing
			return
		}
		words = append(words, strings.FieldsFunc(field, unicode.IsSpace)...)
	}

	return
}

// parseEquate handles '.equ NAME VALUE'.
func (p *Parser) parseEquate(words []string) (err error) {
	if len(words) != 3 || !reIdentifier.MatchString(words[1]) {
		err = ErrEquateSyntax
		return
	}

	_, ok := p.Equate[words[1]]
	if ok {
		err = ErrEquateDuplicate
		return
	}

	p.Equate[words[1]] = p.substitute(words[2])

	return
}

// substitute replaces a word, or the address of a '#' word, by its equate.
func (p *Parser) substitute(word string) string {
	if equate, ok := p.Equate[word]; ok {
		return equate
	}

	if strings.HasPrefix(word, "#") {
		if equate, ok := p.Equate[word[1:]]; ok {
			return "#" + equate
		}
	}

	return word
}

// parseOperand classifies an operand word. Registers are tried first, then
// the index register, then indirect addresses, literals, and labels.
func (p *Parser) parseOperand(word string) (operand Operand, err error) {
	word = p.substitute(word)
	operand.Text = word

	reg, ok := ParseRegister(word)
	if ok {
		operand.Mode = MODE_REGISTER
		operand.Register = reg
		return
	}

	upper := strings.ToUpper(word)
	if upper == "XY" || strings.HasPrefix(upper, "XY+") {
		operand.Mode = MODE_INDEXED
		if upper == "XY" {
			return
		}
		offset := word[3:]
		var value uint64
		value, err = strconv.ParseUint(offset, 10, 64)
		if err != nil {
			err = ErrParseNumber(offset)
			return
		}
		if value > 0xff {
			err = ErrParseRange(offset)
			return
		}
		operand.Value = uint16(value)
		return
	}

	if strings.HasPrefix(word, "#") {
		operand.Mode = MODE_INDIRECT
		operand.Value, err = parseLiteral(word[1:], 0xffff)
		return
	}

	value, err := parseLiteral(word, 0xff)
	if err == nil {
		operand.Mode = MODE_IMMEDIATE
		operand.Value = value
		return
	}

	// Identifiers that are not valid byte literals are labels.
	_, is_number := err.(ErrParseNumber)
	_, is_range := err.(ErrParseRange)
	if (is_number || is_range) && reIdentifier.MatchString(word) {
		err = nil
		operand.Mode = MODE_LABEL
		operand.Label = word
		return
	}

	return
}

// parseLiteral parses a numeric or character literal. No suffix is
// decimal, a 'b' suffix is binary, and an 'h' suffix is hexadecimal.
func parseLiteral(word string, limit uint64) (value uint16, err error) {
	var v64 uint64

	switch {
	case len(word) >= 2 && word[0] == '\'' && word[len(word)-1] == '\'':
		v64, err = parseCharacter(word[1 : len(word)-1])
		if err != nil {
			return
		}
	default:
		digits := word
		base := 10
		switch {
		case strings.HasSuffix(word, "h"), strings.HasSuffix(word, "H"):
			base = 16
			digits = word[:len(word)-1]
		case strings.HasSuffix(word, "b"), strings.HasSuffix(word, "B"):
			base = 2
			digits = word[:len(word)-1]
		}
		if len(digits) == 0 || strings.ContainsAny(digits, "+-_") {
			err = ErrParseNumber(word)
			return
		}
		v64, err = strconv.ParseUint(digits, base, 64)
		if err != nil {
			if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
				err = ErrParseRange(word)
			} else {
				err = ErrParseNumber(word)
			}
			return
		}
	}

	if v64 > limit {
		err = ErrParseRange(word)
		return
	}

	value = uint16(v64)
	return
}

// parseCharacter parses the inside of a character literal.
func parseCharacter(str string) (value uint64, err error) {
	if len(str) == 2 && str[0] == '\\' {
		switch str[1] {
		case '\\':
			value = '\\'
		case 'n':
			value = '\n'
		case 'r':
			value = '\r'
		case 'e':
			value = '\033'
		case '0':
			value = 0
		case '\'':
			value = '\''
		default:
			err = ErrParseCharacter(str)
		}
		return
	}

	if len(str) != 1 {
		err = ErrParseCharacter(str)
		return
	}

	value = uint64(str[0])
	return
}

// expand replaces every character literal and $(...) with its value.
func (p *Parser) expand(line string) (out string, err error) {
	out = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		value, _err := parseCharacter(word[1 : len(word)-1])
		if _err != nil {
			if err == nil {
				err = _err
			}
			return word
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	out = reExpression.ReplaceAllStringFunc(out, func(str string) string {
		value, _err := p.parenEval(str[2 : len(str)-1])
		if _err != nil {
			if err == nil {
				err = _err
			}
			return str
		}
		return fmt.Sprintf("%d", value)
	})

	return
}

// parenEval does compile-time $(...) evaluations, with every numeric equate
// predeclared.
func (p *Parser) parenEval(expr string) (value uint16, err error) {
	thread := starlark.Thread{Name: "expr"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range p.Equate {
		number, _err := parseLiteral(str, 0xffff)
		if _err != nil {
			// Non-numeric equates may be registers or labels.
			continue
		}
		pred[key] = starlark.MakeInt(int(number))
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}

	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}

	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < 0 || st_int64 > 0xffff {
		err = ErrParseRange(expr)
		return
	}

	value = uint16(st_int64)
	return
}
