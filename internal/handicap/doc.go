// Package handicap computes score differentials and handicap indexes.
//
// A score differential normalizes one round against the difficulty of the
// tees played: (gross score - course rating) * 113 / slope rating, rounded to
// one decimal place (half away from zero). A handicap index is the mean of the
// lowest differentials in a player's history (at most 8 of them), scaled by
// 0.96 and truncated to one decimal place.
//
// Every function is pure. Invalid input never produces an error; the result
// is reported as absent through the boolean return so that one bad round
// cannot block saving or displaying the others.
package handicap
