package datasets

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
)

// SplittedTable holds the train and test partitions of a table.
type SplittedTable struct {
	Train *Table
	Test  *Table
}

// TestCount returns the number of test rows for n rows: ceil(n*testSize).
func TestCount(n int, testSize float64) int {
	return int(math.Ceil(float64(n) * testSize))
}

// Split partitions the table into disjoint train and test sets, stratified by target.
// Every class contributes to the test set in proportion to its share of the table,
// leftover rows being assigned by largest remainder. The result only depends on seed.
func Split(t *Table, testSize float64, seed int64) (o SplittedTable, err error) {
	if t.Len() == 0 {
		return o, ErrEmpty
	}
	if testSize <= 0 || testSize >= 1 {
		return o, errors.Errorf("datasets: test size %v out of range (0, 1)", testSize)
	}
	var n = t.Len()
	var nTest = TestCount(n, testSize)
	if nTest >= n {
		return o, errors.Errorf("datasets: test set of %d rows leaves no training rows", nTest)
	}

	var byClass = make(map[int][]int)
	for i, y := range t.target {
		byClass[y] = append(byClass[y], i)
	}
	var classes = sortedKeys(t.ClassCounts())
	if nTest < len(classes) || n-nTest < len(classes) {
		return o, errors.Errorf("datasets: cannot stratify %d classes into %d test and %d train rows",
			len(classes), nTest, n-nTest)
	}

	var quota = allocate(classes, byClass, nTest, n)

	rnd := rand.New(rand.NewSource(seed))
	var train, test []int
	for _, c := range classes {
		idx := append([]int(nil), byClass[c]...)
		rnd.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		test = append(test, idx[:quota[c]]...)
		train = append(train, idx[quota[c]:]...)
	}
	rnd.Shuffle(len(train), func(i, j int) { train[i], train[j] = train[j], train[i] })
	rnd.Shuffle(len(test), func(i, j int) { test[i], test[j] = test[j], test[i] })

	o.Train = t.Subset(train)
	o.Test = t.Subset(test)
	return o, nil
}

// allocate distributes total test rows over classes proportionally to their size.
func allocate(classes []int, byClass map[int][]int, total, n int) map[int]int {
	type share struct {
		class int
		rem   float64
	}
	var quota = make(map[int]int, len(classes))
	var shares = make([]share, 0, len(classes))
	var assigned int
	for _, c := range classes {
		exact := float64(len(byClass[c])) * float64(total) / float64(n)
		whole := math.Floor(exact)
		quota[c] = int(whole)
		assigned += int(whole)
		shares = append(shares, share{c, exact - whole})
	}
	sort.SliceStable(shares, func(a, b int) bool { return shares[a].rem > shares[b].rem })
	for i := 0; assigned < total; i = (i + 1) % len(shares) {
		c := shares[i].class
		if quota[c] < len(byClass[c]) {
			quota[c]++
			assigned++
		}
	}
	return quota
}

func sortedKeys(m map[int]int) []int {
	var keys = make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
