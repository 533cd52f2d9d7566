// Package dashboard builds the aggregate view of a player's rounds: the
// handicap, round statistics, the filtered and sorted round list, and the
// score trend.
//
// The handicap is always computed over every round that has a score, course
// rating and slope rating, whatever filter is applied to the list.
package dashboard
