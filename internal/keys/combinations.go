package keys

// Combinations 惰性生成 n 个元素中取 k 个的下标组合，按字典序。
//
//	c := NewCombinations(4, 2)
//	for c.Next() {
//		use(c.Indices())
//	}
//
// Reset 之后可以重新遍历。
type Combinations struct {
	n, k    int
	idx     []int
	started bool
	done    bool
}

// NewCombinations 创建组合迭代器
func NewCombinations(n, k int) *Combinations {
	c := &Combinations{n: n, k: k, idx: make([]int, k)}
	c.Reset()
	return c
}

// Reset 回到起点
func (c *Combinations) Reset() {
	for i := range c.idx {
		c.idx[i] = i
	}
	c.started = false
	c.done = c.k < 0 || c.k > c.n
}

// Next 前进到下一个组合，没有更多组合时返回 false
func (c *Combinations) Next() bool {
	if c.done {
		return false
	}
	if !c.started {
		c.started = true
		return true
	}
	// 找到最右侧还能右移的位置
	i := c.k - 1
	for i >= 0 && c.idx[i] == c.n-c.k+i {
		i--
	}
	if i < 0 {
		c.done = true
		return false
	}
	c.idx[i]++
	for j := i + 1; j < c.k; j++ {
		c.idx[j] = c.idx[j-1] + 1
	}
	return true
}

// Indices 当前组合，调用方不得修改
func (c *Combinations) Indices() []int {
	return c.idx
}

// Count C(n,k)
func Count(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	r := 1
	for i := 1; i <= k; i++ {
		r = r * (n - k + i) / i
	}
	return r
}
