// Package match decides which provider search result, if any, corresponds to
// a playlist entry. [QueryBuilder] derives the ordered search queries for an
// entry, [Evaluator] runs the two-tier acceptance algorithm against a
// [provider.Provider], and [Score] ranks the deep tier's surviving candidates.
package match
