// Package frametree merges collapsed stack records into a single call tree.
//
// Every node is identified by its path of frame names from the synthetic
// root. A record adds its weight to the total of each node along its path,
// so a node's total covers every record whose stack starts with that node's
// path. Children are keyed by name, which makes the merge commutative: the
// order in which records or whole input streams arrive never changes the
// resulting tree.
//
// Self values are derived once, after all records have been merged, as the
// node total minus the sum of its children's totals:
//
//	b := frametree.NewBuilder()
//	b.Add(rec1)
//	b.Add(rec2)
//	t, err := b.Tree()
//
// Differential records carry a second weight. The second channel follows the
// same cumulative rule independently, and each node's Delta is the
// comparison total minus the baseline total.
package frametree
