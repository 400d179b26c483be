package shi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readOneForm(t *testing.T, rt *Runtime, src string) Ref {
	t.Helper()
	rd := newReader(rt, src)
	form, err := rd.readForm()
	require.NoError(t, err)
	return form
}

func TestReader_Int(t *testing.T) {
	rt := newTestRuntime(t)
	tests := []struct {
		src      string
		expected int64
	}{
		{"42", 42},
		{"-7", -7},
		{"0", 0},
	}
	for _, tt := range tests {
		form := readOneForm(t, rt, tt.src)
		require.Equal(t, TagInt, rt.cellAt(form).tag)
		assert.Equal(t, tt.expected, rt.IntVal(form))
	}
}

func TestReader_Symbol(t *testing.T) {
	rt := newTestRuntime(t)
	form := readOneForm(t, rt, "hello-world?")
	require.Equal(t, TagSym, rt.cellAt(form).tag)
	assert.Equal(t, "hello-world?", rt.SymName(form))
}

func TestReader_String(t *testing.T) {
	rt := newTestRuntime(t)
	form := readOneForm(t, rt, `"hi\nthere"`)
	require.Equal(t, TagStr, rt.cellAt(form).tag)
	assert.Equal(t, "hi\nthere", rt.StrVal(form))
}

func TestReader_ProperList(t *testing.T) {
	rt := newTestRuntime(t)
	form := readOneForm(t, rt, "(1 2 3)")
	assert.Equal(t, "(1 2 3)", rt.printRef(form))
}

func TestReader_DottedList(t *testing.T) {
	rt := newTestRuntime(t)
	form := readOneForm(t, rt, "(1 . 2)")
	assert.Equal(t, "(1 . 2)", rt.printRef(form))
}

func TestReader_NestedList(t *testing.T) {
	rt := newTestRuntime(t)
	form := readOneForm(t, rt, "(a (b c) d)")
	assert.Equal(t, "(a (b c) d)", rt.printRef(form))
}

func TestReader_QuoteShorthand(t *testing.T) {
	rt := newTestRuntime(t)
	form := readOneForm(t, rt, "'x")
	assert.Equal(t, "(quote x)", rt.printRef(form))
}

func TestReader_QuasiquoteShorthand(t *testing.T) {
	rt := newTestRuntime(t)
	form := readOneForm(t, rt, "`x")
	assert.Equal(t, "(quasiquote x)", rt.printRef(form))
}

func TestReader_UnquoteShorthand(t *testing.T) {
	rt := newTestRuntime(t)
	form := readOneForm(t, rt, ",x")
	assert.Equal(t, "(unquote x)", rt.printRef(form))
}

func TestReader_UnquoteSplicingShorthand(t *testing.T) {
	rt := newTestRuntime(t)
	form := readOneForm(t, rt, ",@x")
	assert.Equal(t, "(unquote-splicing x)", rt.printRef(form))
}

func TestReader_ColonDesugaring(t *testing.T) {
	rt := newTestRuntime(t)
	form := readOneForm(t, rt, "point:x")
	assert.Equal(t, "(: point (quote x))", rt.printRef(form))
}

// TestEval_ColonAccess exercises the desugared form end to end: the
// reader's `obj:key` shorthand only means anything once `:` is bound,
// here to the prelude's prototype-chain-aware lookup.
func TestEval_ColonAccess(t *testing.T) {
	rt := newTestRuntime(t)
	v := mustEval(t, rt, `(do (def point (obj nil (list (cons 'x 5) (cons 'y 6)))) point:x)`)
	assert.Equal(t, int64(5), rt.IntVal(v))
}

func TestEval_ColonAccess_WalksPrototypeChain(t *testing.T) {
	rt := newTestRuntime(t)
	v := mustEval(t, rt, `
(do
  (def base (obj nil (list (cons 'x 1))))
  (def child (obj base nil))
  child:x)
`)
	assert.Equal(t, int64(1), rt.IntVal(v))
}

func TestReader_ObjLiteral(t *testing.T) {
	rt := newTestRuntime(t)
	form := readOneForm(t, rt, "{a 1 b 2}")
	assert.Equal(t, "(list (cons a 1) (cons b 2))", rt.printRef(form))
}

func TestReader_ObjLiteral_OddFormsIsError(t *testing.T) {
	rt := newTestRuntime(t)
	rd := newReader(rt, "{a 1 b}")
	_, err := rd.readForm()
	assert.Error(t, err)
}

func TestReader_LineComment(t *testing.T) {
	rt := newTestRuntime(t)
	form := readOneForm(t, rt, "; a comment\n42")
	assert.Equal(t, int64(42), rt.IntVal(form))
}

func TestReader_Shebang(t *testing.T) {
	rt := newTestRuntime(t)
	form := readOneForm(t, rt, "#!/usr/bin/env shi\n42")
	assert.Equal(t, int64(42), rt.IntVal(form))
}

func TestReader_MultipleForms(t *testing.T) {
	rt := newTestRuntime(t)
	rd := newReader(rt, "1 2 3")
	var got []int64
	for {
		form, err := rd.readForm()
		if err == errReaderEOF {
			break
		}
		require.NoError(t, err)
		got = append(got, rt.IntVal(form))
	}
	assert.Equal(t, []int64{1, 2, 3}, got)
}

func TestReader_EOFOnEmptyInput(t *testing.T) {
	rt := newTestRuntime(t)
	rd := newReader(rt, "   ")
	_, err := rd.readForm()
	assert.ErrorIs(t, err, errReaderEOF)
}

func TestReader_UnclosedListIsError(t *testing.T) {
	rt := newTestRuntime(t)
	rd := newReader(rt, "(1 2")
	_, err := rd.readForm()
	assert.Error(t, err)
}

func TestReader_StrayCloseParenIsError(t *testing.T) {
	rt := newTestRuntime(t)
	rd := newReader(rt, ")")
	_, err := rd.readForm()
	assert.Error(t, err)
}
