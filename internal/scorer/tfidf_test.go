package scorer

import (
	"math"
	"reflect"
	"testing"
)

func TestCorpusCosine(t *testing.T) {
	c, err := newCorpus("golang programming concurrency", "golang programming concurrency")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(c.cosine(0, 1)-1) > 1e-9 {
		t.Errorf("expected identical documents to have cosine 1, got %f", c.cosine(0, 1))
	}

	c, err = newCorpus("golang programming concurrency", "machine learning neural networks")
	if err != nil {
		t.Fatal(err)
	}
	if c.cosine(0, 1) != 0 {
		t.Errorf("expected disjoint documents to have cosine 0, got %f", c.cosine(0, 1))
	}
}

func TestCorpusPartialOverlap(t *testing.T) {
	c, err := newCorpus("golang programming goroutines concurrency", "golang programming concurrency")
	if err != nil {
		t.Fatal(err)
	}
	if sim := c.cosine(0, 1); sim <= 0 || sim >= 1 {
		t.Errorf("expected partial overlap between 0 and 1, got %f", sim)
	}
}

func TestCorpusEmptyVocabulary(t *testing.T) {
	if _, err := newCorpus("a b c", "! ?"); err != errEmptyVocabulary {
		t.Errorf("expected errEmptyVocabulary, got %v", err)
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("O Lançamento de GTA 6, em 2025!")
	want := []string{"lançamento", "de", "gta", "em", "2025"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestNgrams(t *testing.T) {
	got := ngrams([]string{"a", "b", "c"}, 3)
	want := []string{"a", "b", "c", "a b", "b c", "a b c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
