package component

type Player struct {
	MoveSpeed    float64
	JumpSpeed    float64
	CoyoteFrames int
	// CoyoteLeft counts down the frames a jump is still allowed after
	// leaving the floor.
	CoyoteLeft int
}

var PlayerComponent = NewComponent[Player]()
