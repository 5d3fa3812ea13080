package selector

// Rolling hash multiplier applied per UTF-16 code unit
const hashMultiplier int32 = 31

// MinTickets is the floor applied to every weighted entry so low-weight
// items are never dropped from the pool.
const MinTickets = 1
