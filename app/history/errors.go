package history

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAmbiguousAggregate  = errors.New("more than one aggregate template")
	ErrNoAggregate         = errors.New("no aggregate template")
	ErrActionCountMismatch = errors.New("action and action date counts differ")
	ErrUnsupportedLink     = errors.New("link parameter cannot be represented in the aggregate")
	ErrIndexGap            = errors.New("numbered entries are not contiguous")
	ErrTooManyEntries      = errors.New("too many numbered entries")
	ErrMissingParameter    = errors.New("missing required parameter")
	ErrInvalidResult       = errors.New("invalid discussion result")
	ErrUnsupportedType     = errors.New("unsupported discussion type")
	ErrPositionalParameter = errors.New("unexpected positional parameter")
	ErrInvalidDate         = errors.New("invalid date")
	ErrNoAdapter           = errors.New("no adapter for source template")
)

type ErrorKind int

const (
	MarkupError ErrorKind = iota
	SchemaError
	CollaboratorError
)

func (k ErrorKind) String() string {
	switch k {
	case MarkupError:
		return "markup"
	case SchemaError:
		return "schema"
	case CollaboratorError:
		return "collaborator"
	default:
		return fmt.Sprintf("error(%d)", int(k))
	}
}

// PageError aborts processing of a single page. It carries enough context
// for an operator to find the offending template parameter.
type PageError struct {
	Kind     ErrorKind
	Template Kind
	Page     string
	Param    string
	Err      error
}

func (e *PageError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(" error")
	if e.Page != "" {
		fmt.Fprintf(&b, " on %q", e.Page)
	}
	if e.Template != KindUnknown {
		fmt.Fprintf(&b, " in %s template", e.Template)
	}
	if e.Param != "" {
		fmt.Fprintf(&b, " at parameter %q", e.Param)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *PageError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure came from a collaborator that may
// succeed on a later attempt. Bad dates never will.
func (e *PageError) Retryable() bool {
	return e.Kind == CollaboratorError && !errors.Is(e.Err, ErrInvalidDate)
}

func markupError(err error) *PageError {
	return &PageError{Kind: MarkupError, Err: err}
}

func schemaError(kind Kind, param string, err error) *PageError {
	return &PageError{Kind: SchemaError, Template: kind, Param: param, Err: err}
}

func collaboratorError(kind Kind, param string, err error) *PageError {
	return &PageError{Kind: CollaboratorError, Template: kind, Param: param, Err: err}
}

func dateError(kind Kind, param, value string, err error) *PageError {
	return collaboratorError(kind, param, fmt.Errorf("%w %q: %w", ErrInvalidDate, value, err))
}

// withPage fills in the page title on a PageError, wrapping other errors as
// collaborator failures.
func withPage(err error, page string) error {
	var pe *PageError
	if !errors.As(err, &pe) {
		return &PageError{Kind: CollaboratorError, Page: page, Err: err}
	}
	if pe.Page == "" {
		pe.Page = page
	}
	return pe
}
