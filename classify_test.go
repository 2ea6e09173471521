package kdoc_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/kdoc"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		signature string
		want      kdoc.SymbolKind
	}{
		{"class", "public final class Foo", kdoc.KindClass},
		{"data class with constructor", "data class Pair<out A, out B>(val first: A, val second: B)", kdoc.KindClass},
		{"typealias", "typealias ArrayList<E> = java.util.ArrayList<E>", kdoc.KindClass},
		{"interface", "interface Collection<out E> : Iterable<E>", kdoc.KindInterface},
		{"function", "fun bar(x: Int): String", kdoc.KindFunction},
		{"suspend function", "suspend fun delay(timeMillis: Long)", kdoc.KindFunction},
		{"inline extension function", "inline fun <T> Iterable<T>.forEach(action: (T) -> Unit)", kdoc.KindFunction},
		{"val", "val baz: Int", kdoc.KindProperty},
		{"const val", "const val MAX_VALUE: Int", kdoc.KindProperty},
		{"var", "var size: Int", kdoc.KindProperty},
		{"object", "object Unit", kdoc.KindObject},
		{"companion object", "companion object Companion", kdoc.KindObject},
		{"init token", "<init> (x: Int)", kdoc.KindConstructor},
		{"init prefix", "<init>(x: Int)", kdoc.KindConstructor},
		{"call shape", "Foo(x: Int)", kdoc.KindConstructor},
		{"call shape after modifier", "protected Foo(x: Int)", kdoc.KindConstructor},
		{"enum constant", "FOO_BAR", kdoc.KindEnum},
		{"enum constant after modifier", "public FOO_BAR", kdoc.KindEnum},
		{"lone lowercase identifier", "foo", kdoc.KindUnclassified},
		{"empty", "", kdoc.KindUnclassified},
		{"whitespace", "   \n\t ", kdoc.KindUnclassified},
		{"only modifiers", "public open abstract", kdoc.KindUnclassified},
		{"surrounding whitespace", "\n  fun bar()  \n", kdoc.KindFunction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, kdoc.Classify(tt.signature))
		})
	}
}

func TestClassify_ClassRegardlessOfModifiers(t *testing.T) {
	t.Parallel()

	// Every ordering of every subset of modifiers in front of a class
	// declaration still yields Class.
	mods := kdoc.ModifierTokens
	for mask := 0; mask < 1<<len(mods); mask++ {
		var prefix []string
		for i, m := range mods {
			if mask&(1<<i) != 0 {
				prefix = append(prefix, m)
			}
		}
		for _, keyword := range []string{"class", "typealias"} {
			forward := strings.Join(append(append([]string{}, prefix...), keyword, "Foo"), " ")
			assert.Equal(t, kdoc.KindClass, kdoc.Classify(forward), forward)

			reversed := make([]string, 0, len(prefix)+2)
			for i := len(prefix) - 1; i >= 0; i-- {
				reversed = append(reversed, prefix[i])
			}
			backward := strings.Join(append(reversed, keyword, "Foo"), " ")
			assert.Equal(t, kdoc.KindClass, kdoc.Classify(backward), backward)
		}
	}
}

func TestClassify_ModifiersNeverChangeKind(t *testing.T) {
	t.Parallel()

	signatures := []string{
		"fun bar(x: Int): String",
		"val baz: Int",
		"object Unit",
		"interface Foo",
		"<init>(x: Int)",
		"Foo(x: Int)",
		"FOO_BAR",
		"foo",
	}

	for _, sig := range signatures {
		want := kdoc.Classify(sig)
		for _, mod := range kdoc.ModifierTokens {
			assert.Equal(t, want, kdoc.Classify(mod+" "+sig), "%s %s", mod, sig)
		}
	}
}

func TestClassify_KeywordsTakePrecedenceOverShape(t *testing.T) {
	t.Parallel()

	// A keyworded declaration that also looks like a call is never a constructor.
	assert.Equal(t, kdoc.KindFunction, kdoc.Classify("fun bar(x: Int): String"))
	assert.Equal(t, kdoc.KindClass, kdoc.Classify("class Foo(x: Int)"))
	// class wins over fun when both appear.
	assert.Equal(t, kdoc.KindClass, kdoc.Classify("fun interface class"))
	// interface wins over fun.
	assert.Equal(t, kdoc.KindInterface, kdoc.Classify("fun interface Runnable"))
	// fun wins over val.
	assert.Equal(t, kdoc.KindFunction, kdoc.Classify("fun val"))
}

func TestSignatureTokens(t *testing.T) {
	t.Parallel()

	t.Run("removes every modifier", func(t *testing.T) {
		t.Parallel()

		sig := strings.Join(kdoc.ModifierTokens, " ") + " fun bar()"

		assert.Equal(t, []string{"fun", "bar()"}, kdoc.SignatureTokens(sig))
	})

	t.Run("keeps modifier-like substrings", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{"openFile()"}, kdoc.SignatureTokens("openFile()"))
	})

	t.Run("returns empty slice for blank input", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, kdoc.SignatureTokens("  "))
	})
}

func TestClassifyRules_CoverEveryKind(t *testing.T) {
	t.Parallel()

	covered := make(map[kdoc.SymbolKind]bool)
	for _, rule := range kdoc.ClassifyRules {
		assert.NotEmpty(t, rule.Name)
		assert.NotNil(t, rule.Match)
		covered[rule.Kind] = true
	}
	for _, kind := range kdoc.SymbolKinds() {
		assert.True(t, covered[kind], "no rule yields %s", kind)
	}
	assert.False(t, covered[kdoc.KindUnclassified])
}

func TestKindKeywords_AreNotModifiers(t *testing.T) {
	t.Parallel()

	for kind, keywords := range kdoc.KindKeywords {
		for _, kw := range keywords {
			assert.NotContains(t, kdoc.ModifierTokens, kw, "%s keyword %q", kind, kw)
		}
	}
}
