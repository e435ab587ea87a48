package graph

// Slot projects one result of a multi-output Operation as a standalone Value.
//
// The slot holds a shared reference to the owning Operation plus an output
// index; dtype and shape are derived on demand from the parent. Traversal
// delegates to the parent, so the owning Operation is visited exactly once no
// matter how many of its slots are consumed downstream.
type Slot struct {
	Ident
	parent MultiOutput
	index  int
}

// NewSlot creates the Value for output slot index of parent. It is called by
// multi-output operation constructors, once per slot.
func NewSlot(parent MultiOutput, index int) *Slot {
	return &Slot{Ident: NewIdent(), parent: parent, index: index}
}

// Parent returns the owning Operation.
func (s *Slot) Parent() Operation { return s.parent }

// Index returns the output slot index within the parent.
func (s *Slot) Index() int { return s.index }

// DType returns the element type of this slot, derived from the parent.
func (s *Slot) DType() DataType { return s.parent.OutputDType(s.index) }

// Shape returns the shape of this slot, derived from the parent.
func (s *Slot) Shape() Shape { return s.parent.OutputShape(s.index) }

// Name returns "". Slots are named like any other intermediate Value during
// export.
func (s *Slot) Name() string { return "" }

// CollectOps delegates reachability to the owning Operation.
func (s *Slot) CollectOps(set *OpSet) { VisitOps(s.parent, set) }

// CollectValues delegates reachability to the owning Operation.
func (s *Slot) CollectValues(set *ValueSet) { VisitValues(s.parent, set) }
