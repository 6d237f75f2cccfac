// Package kif reads and writes KIF game records.
package kif

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/tmhr1850/kifu-app2-sub000/internal/shogi"
)

// Encoding selects the character set of a written record.
type Encoding string

const (
	ShiftJIS Encoding = "shift_jis"
	UTF8     Encoding = "utf-8"
)

// ParseEncoding maps a query value to an Encoding; anything unknown is Shift_JIS.
func ParseEncoding(name string) Encoding {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "utf-8", "utf8":
		return UTF8
	}
	return ShiftJIS
}

const (
	Resigned  = "投了"
	Checkmate = "詰み"
	Abandoned = "中断"

	dateLayout = "2006/01/02 15:04:05"
)

var errMissingSource = errors.New("missing source square")

// Record is a game record from the standard starting position.
type Record struct {
	Sente   string
	Gote    string
	Started time.Time
	Moves   []shogi.Move
	// Result is the terminal word, empty for an unfinished game.
	Result string
}

// FromState builds the record of a game session.
func FromState(state shogi.State, sente, gote string, started time.Time) Record {
	record := Record{Sente: sente, Gote: gote, Started: started}
	for _, played := range state.History {
		record.Moves = append(record.Moves, played.Move)
	}
	switch state.Status {
	case shogi.Resigned:
		record.Result = Resigned
	case shogi.Checkmate, shogi.Stalemate:
		record.Result = Checkmate
	}
	return record
}

// Replay rebuilds the session the record describes.
func (r Record) Replay() (shogi.State, error) {
	state, err := shogi.Replay(r.Moves)
	if err != nil {
		return state, err
	}
	if r.Result == Resigned {
		state = state.Resign()
	}
	return state, nil
}

var fileDigits = []rune("１２３４５６７８９")
var rankNumerals = []rune("一二三四五六七八九")

var kindNames = map[shogi.PieceKind]string{
	shogi.King:           "玉",
	shogi.Rook:           "飛",
	shogi.Bishop:         "角",
	shogi.Gold:           "金",
	shogi.Silver:         "銀",
	shogi.Knight:         "桂",
	shogi.Lance:          "香",
	shogi.Pawn:           "歩",
	shogi.Dragon:         "龍",
	shogi.Horse:          "馬",
	shogi.PromotedSilver: "成銀",
	shogi.PromotedKnight: "成桂",
	shogi.PromotedLance:  "成香",
	shogi.Tokin:          "と",
}

// Write renders r as KIF. The moves are replayed to name the pieces, so an
// illegal sequence is an error.
func Write(w io.Writer, r Record, enc Encoding) error {
	var closer io.Closer
	if enc != UTF8 {
		sjis := transform.NewWriter(w, japanese.ShiftJIS.NewEncoder())
		w, closer = sjis, sjis
	}
	bw := bufio.NewWriter(w)

	if !r.Started.IsZero() {
		fmt.Fprintf(bw, "開始日時：%s\n", r.Started.Format(dateLayout))
	}
	fmt.Fprintf(bw, "手合割：平手\n先手：%s\n後手：%s\n", r.Sente, r.Gote)
	fmt.Fprintln(bw, "手数----指手---------消費時間--")

	state := shogi.NewState()
	var previous *shogi.Position
	for i, m := range r.Moves {
		text, err := moveText(state, m, previous)
		if err != nil {
			return fmt.Errorf("ply %d: %w", i+1, err)
		}
		next, err := state.Play(m)
		if err != nil {
			return fmt.Errorf("ply %d: %w", i+1, err)
		}
		fmt.Fprintf(bw, "%4d %s\n", i+1, text)
		to := m.To
		previous = &to
		state = next
	}
	if r.Result != "" {
		fmt.Fprintf(bw, "%4d %s\n", len(r.Moves)+1, r.Result)
		winner := "先手"
		if len(r.Moves)%2 == 0 {
			winner = "後手"
		}
		fmt.Fprintf(bw, "まで%d手で%sの勝ち\n", len(r.Moves), winner)
	}

	if err := bw.Flush(); err != nil {
		return err
	}
	if closer != nil {
		return closer.Close()
	}
	return nil
}

func squareText(pos shogi.Position) string {
	return string(fileDigits[shogi.Size-1-pos.Column()]) + string(rankNumerals[pos.Row()])
}

func moveText(state shogi.State, m shogi.Move, previous *shogi.Position) (string, error) {
	var sb strings.Builder
	if previous != nil && *previous == m.To {
		sb.WriteString("同　")
	} else {
		sb.WriteString(squareText(m.To))
	}
	if m.IsDrop() {
		sb.WriteString(kindNames[m.Drop])
		sb.WriteString("打")
		return sb.String(), nil
	}
	piece, ok := state.Board.GetPiece(m.From)
	if !ok {
		return "", fmt.Errorf("%w: no piece at %s", shogi.ErrInvalidMove, m.From)
	}
	sb.WriteString(kindNames[piece.Kind()])
	switch {
	case m.Promote:
		sb.WriteString("成")
	case state.IsLegal(shogi.NewMove(m.From, m.To, true)):
		sb.WriteString("不成")
	}
	fmt.Fprintf(&sb, "(%d%d)", shogi.Size-m.From.Column(), m.From.Row()+1)
	return sb.String(), nil
}

var (
	moveLineRe   = regexp.MustCompile(`^\s*(\d+)\s+(同[ 　]*\S+|\S+)`)
	fromSquareRe = regexp.MustCompile(`\(([1-9])([1-9])\)`)
)

var terminalWords = map[string]bool{
	Resigned: true, Checkmate: true, Abandoned: true,
	"持将棋": true, "千日手": true, "切れ負け": true, "反則勝ち": true,
	"反則負け": true, "入玉勝ち": true, "勝ち宣言": true,
}

type pieceName struct {
	name string
	kind shogi.PieceKind
}

// longer names first so 成銀 is not read as 銀
var pieceNames = []pieceName{
	{"成銀", shogi.PromotedSilver},
	{"成桂", shogi.PromotedKnight},
	{"成香", shogi.PromotedLance},
	{"全", shogi.PromotedSilver},
	{"圭", shogi.PromotedKnight},
	{"杏", shogi.PromotedLance},
	{"と", shogi.Tokin},
	{"馬", shogi.Horse},
	{"龍", shogi.Dragon},
	{"竜", shogi.Dragon},
	{"王", shogi.King},
	{"玉", shogi.King},
	{"飛", shogi.Rook},
	{"角", shogi.Bishop},
	{"金", shogi.Gold},
	{"銀", shogi.Silver},
	{"桂", shogi.Knight},
	{"香", shogi.Lance},
	{"歩", shogi.Pawn},
}

// Read parses a KIF record in UTF-8 (with or without BOM) or Shift_JIS.
func Read(r io.Reader) (Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Record{}, err
	}
	text, err := decode(data)
	if err != nil {
		return Record{}, err
	}

	var record Record
	var previous *shogi.Position
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if header, value, ok := cutHeader(line); ok {
			switch header {
			case "先手", "下手":
				record.Sente = value
			case "後手", "上手":
				record.Gote = value
			case "開始日時":
				if started, err := time.ParseInLocation(dateLayout, value, time.Local); err == nil {
					record.Started = started
				}
			}
			continue
		}
		match := moveLineRe.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		token := match[2]
		if terminalWords[token] {
			record.Result = token
			break
		}
		if ply, _ := strconv.Atoi(match[1]); ply != len(record.Moves)+1 {
			return record, fmt.Errorf("line %d: ply %d out of sequence", i+1, ply)
		}
		m, err := parseMove(token, previous)
		if err != nil {
			return record, fmt.Errorf("line %d: %w", i+1, err)
		}
		record.Moves = append(record.Moves, m)
		to := m.To
		previous = &to
	}
	return record, nil
}

func decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), japanese.ShiftJIS.NewDecoder()))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(decoded) {
		return "", errors.New("failed to decode Shift_JIS KIF")
	}
	return string(decoded), nil
}

func cutHeader(line string) (string, string, bool) {
	i := strings.Index(line, "：")
	if i <= 0 || strings.HasPrefix(strings.TrimSpace(line), "*") {
		return "", "", false
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+len("："):]), true
}

func parseMove(token string, previous *shogi.Position) (shogi.Move, error) {
	var to shogi.Position
	work := token
	if strings.HasPrefix(work, "同") {
		if previous == nil {
			return shogi.Move{}, fmt.Errorf("%w: 同 without a previous move", shogi.ErrInvalidMove)
		}
		to = *previous
		work = strings.TrimLeft(strings.TrimPrefix(work, "同"), " 　")
	} else {
		runes := []rune(work)
		if len(runes) < 2 {
			return shogi.Move{}, fmt.Errorf("%w: %s", shogi.ErrInvalidMove, token)
		}
		pos, err := parseSquare(runes[0], runes[1])
		if err != nil {
			return shogi.Move{}, fmt.Errorf("%w: %s", err, token)
		}
		to = pos
		work = string(runes[2:])
	}

	kind, ok := shogi.PieceKind(0), false
	for _, p := range pieceNames {
		if strings.HasPrefix(work, p.name) {
			kind, ok = p.kind, true
			work = strings.TrimPrefix(work, p.name)
			break
		}
	}
	if !ok {
		return shogi.Move{}, fmt.Errorf("%w: unknown piece in %s", shogi.ErrInvalidMove, token)
	}

	if strings.Contains(work, "打") {
		if kind.Promoted() || kind == shogi.King {
			return shogi.Move{}, fmt.Errorf("%w: cannot drop %s", shogi.ErrInvalidMove, kind)
		}
		return shogi.NewDrop(kind, to), nil
	}
	source := fromSquareRe.FindStringSubmatch(work)
	if source == nil {
		return shogi.Move{}, fmt.Errorf("%w: %v in %s", shogi.ErrInvalidMove, errMissingSource, token)
	}
	file, _ := strconv.Atoi(source[1])
	rank, _ := strconv.Atoi(source[2])
	from, err := shogi.NewPosition(rank-1, shogi.Size-file)
	if err != nil {
		return shogi.Move{}, err
	}
	work = fromSquareRe.ReplaceAllString(work, "")
	promote := strings.Contains(work, "成") && !strings.Contains(work, "不成")
	return shogi.NewMove(from, to, promote), nil
}

func parseSquare(file, rank rune) (shogi.Position, error) {
	f := -1
	switch {
	case file >= '1' && file <= '9':
		f = int(file - '0')
	case file >= '１' && file <= '９':
		f = int(file-'１') + 1
	}
	r := -1
	for i, numeral := range rankNumerals {
		if numeral == rank {
			r = i
		}
	}
	if f < 0 || r < 0 {
		return shogi.Position{}, fmt.Errorf("%w: square %c%c", shogi.ErrInvalidPosition, file, rank)
	}
	return shogi.NewPosition(r, shogi.Size-f)
}
