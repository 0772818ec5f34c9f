package gonja

import (
	"errors"
	"fmt"

	"github.com/nikolalohinski/gonja/v2/exec"
	"github.com/nikolalohinski/gonja/v2/nodes"
	"github.com/nikolalohinski/gonja/v2/parser"
	"github.com/nikolalohinski/gonja/v2/tokens"
)

// Loop-control signals travel as errors from the break and continue
// statements to the enclosing for statement, which absorbs them. One that
// escapes was used outside a loop.
var (
	errLoopBreak    = errors.New("'break' used outside of a for loop")
	errLoopContinue = errors.New("'continue' used outside of a for loop")
)

func setControlStructure(set *exec.ControlStructureSet, name string, fn parser.ControlStructureParser) error {
	if set.Exists(name) {
		return set.Replace(name, fn)
	}
	return set.Register(name, fn)
}

type breakControlStructure struct {
	location *tokens.Token
}

func (cs *breakControlStructure) Position() *tokens.Token { return cs.location }

func (cs *breakControlStructure) String() string {
	t := cs.Position()
	return fmt.Sprintf("BreakControlStructure(Line=%d Col=%d)", t.Line, t.Col)
}

func (cs *breakControlStructure) Execute(*exec.Renderer, *nodes.ControlStructureBlock) error {
	return errLoopBreak
}

func parseBreak(p *parser.Parser, args *parser.Parser) (nodes.ControlStructure, error) {
	cs := &breakControlStructure{location: p.Current()}
	if !args.End() {
		return nil, args.Error("break takes no arguments", args.Current())
	}
	return cs, nil
}

type continueControlStructure struct {
	location *tokens.Token
}

func (cs *continueControlStructure) Position() *tokens.Token { return cs.location }

func (cs *continueControlStructure) String() string {
	t := cs.Position()
	return fmt.Sprintf("ContinueControlStructure(Line=%d Col=%d)", t.Line, t.Col)
}

func (cs *continueControlStructure) Execute(*exec.Renderer, *nodes.ControlStructureBlock) error {
	return errLoopContinue
}

func parseContinue(p *parser.Parser, args *parser.Parser) (nodes.ControlStructure, error) {
	cs := &continueControlStructure{location: p.Current()}
	if !args.End() {
		return nil, args.Error("continue takes no arguments", args.Current())
	}
	return cs, nil
}

// doControlStructure evaluates a single expression for its side effects and
// emits nothing.
type doControlStructure struct {
	location   *tokens.Token
	expression nodes.Expression
}

func (cs *doControlStructure) Position() *tokens.Token { return cs.location }

func (cs *doControlStructure) String() string {
	t := cs.Position()
	return fmt.Sprintf("DoControlStructure(Line=%d Col=%d)", t.Line, t.Col)
}

func (cs *doControlStructure) Execute(r *exec.Renderer, _ *nodes.ControlStructureBlock) error {
	if value := r.Eval(cs.expression); value.IsError() {
		return value
	}
	return nil
}

func parseDo(p *parser.Parser, args *parser.Parser) (nodes.ControlStructure, error) {
	cs := &doControlStructure{location: p.Current()}
	expression, err := args.ParseExpression()
	if err != nil {
		return nil, err
	}
	cs.expression = expression
	if !args.End() {
		return nil, args.Error("do accepts a single expression", args.Current())
	}
	return cs, nil
}

// forControlStructure replaces the stock for statement with one that
// understands the loop-control signals. The grammar matches the engine's own:
// "for <key>[, <value>] in <expr> [if <cond>]" with an optional else block
// rendered when the iterable is empty. The recursive modifier is not
// supported.
type forControlStructure struct {
	location *tokens.Token

	key             string
	value           string
	objectEvaluator nodes.Expression
	ifCondition     nodes.Expression

	body  *nodes.Wrapper
	empty *nodes.Wrapper
}

func (cs *forControlStructure) Position() *tokens.Token { return cs.location }

func (cs *forControlStructure) String() string {
	t := cs.Position()
	return fmt.Sprintf("ForControlStructure(Line=%d Col=%d)", t.Line, t.Col)
}

func (cs *forControlStructure) Execute(r *exec.Renderer, _ *nodes.ControlStructureBlock) error {
	obj := r.Eval(cs.objectEvaluator)
	if obj.IsError() {
		return obj
	}

	// Collect the (filtered) items up front so the loop variable can report
	// length, last and the reverse indexes.
	type pair struct {
		key   *exec.Value
		value *exec.Value
	}
	var items []pair
	var iterErr error
	obj.Iterate(func(idx, count int, key, value *exec.Value) bool {
		if cs.ifCondition != nil {
			sub := r.Inherit()
			cs.bind(sub, key, value)
			holds := sub.Eval(cs.ifCondition)
			if holds.IsError() {
				iterErr = holds
				return false
			}
			if !holds.IsTrue() {
				return true
			}
		}
		items = append(items, pair{key: key, value: value})
		return true
	}, func() {})
	if iterErr != nil {
		return iterErr
	}

	length := len(items)
	if length == 0 {
		if cs.empty != nil {
			return r.Inherit().ExecuteWrapper(cs.empty)
		}
		return nil
	}

	for idx, item := range items {
		sub := r.Inherit()
		cs.bind(sub, item.key, item.value)
		sub.Environment.Context.Set("loop", map[string]any{
			"index":     idx + 1,
			"index0":    idx,
			"revindex":  length - idx,
			"revindex0": length - idx - 1,
			"first":     idx == 0,
			"last":      idx == length-1,
			"length":    length,
		})

		switch err := sub.ExecuteWrapper(cs.body); {
		case err == nil, errors.Is(err, errLoopContinue):
		case errors.Is(err, errLoopBreak):
			return nil
		default:
			return err
		}
	}
	return nil
}

// bind sets the loop variables on the sub-renderer's context. Lists put the
// element in key; mappings supply both halves.
func (cs *forControlStructure) bind(r *exec.Renderer, key, value *exec.Value) {
	ctx := r.Environment.Context
	ctx.Set(cs.key, key.Interface())
	if cs.value != "" && value != nil {
		ctx.Set(cs.value, value.Interface())
	}
}

func parseFor(p *parser.Parser, args *parser.Parser) (nodes.ControlStructure, error) {
	cs := &forControlStructure{location: p.Current()}

	keyToken := args.Match(tokens.Name)
	if keyToken == nil {
		return nil, args.Error("expected a loop variable name", args.Current())
	}
	cs.key = keyToken.Val

	if args.Match(tokens.Comma) != nil {
		valueToken := args.Match(tokens.Name)
		if valueToken == nil {
			return nil, args.Error("expected a second loop variable name after ','", args.Current())
		}
		cs.value = valueToken.Val
	}

	if args.Match(tokens.In) == nil {
		return nil, args.Error("expected the 'in' keyword", args.Current())
	}

	objectEvaluator, err := args.ParseExpression()
	if err != nil {
		return nil, err
	}
	cs.objectEvaluator = objectEvaluator

	if args.MatchName("if") != nil {
		condition, err := args.ParseExpression()
		if err != nil {
			return nil, err
		}
		cs.ifCondition = condition
	}

	if !args.End() {
		return nil, args.Error("malformed for-loop arguments", args.Current())
	}

	body, endArgs, err := p.WrapUntil("else", "endfor")
	if err != nil {
		return nil, err
	}
	cs.body = body
	if !endArgs.End() {
		return nil, endArgs.Error("arguments not allowed here", endArgs.Current())
	}

	if body.EndTag == "else" {
		empty, elseArgs, err := p.WrapUntil("endfor")
		if err != nil {
			return nil, err
		}
		cs.empty = empty
		if !elseArgs.End() {
			return nil, elseArgs.Error("arguments not allowed here", elseArgs.Current())
		}
	}

	return cs, nil
}
