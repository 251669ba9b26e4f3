// Package tokenizer implements a runtime subword tokenizer for large
// language models. It loads a pretrained configuration bundle (vocabulary,
// optional merge table, and a declarative pipeline description) and converts
// text to token-id sequences and back with byte-exact fidelity to the
// upstream reference tokenizer.
//
// The pipeline has six stages: added-token splitting, normalization,
// pre-tokenization, model segmentation (BPE, WordPiece, or Unigram),
// post-processing, and decoding. A Tokenizer is immutable after LoadFromJSON
// and safe for concurrent use.
package tokenizer
