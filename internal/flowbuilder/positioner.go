package flowbuilder

// Point is a canvas coordinate pair.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LinearFlow positions processors in a horizontal line with even spacing.
func LinearFlow(count int, startX, startY, spacingX float64) []Point {
	points := make([]Point, 0, count)
	for i := 0; i < count; i++ {
		points = append(points, Point{X: startX + float64(i)*spacingX, Y: startY})
	}
	return points
}

// BranchingFlow positions a horizontal main line with a vertical fan of
// branches after the last main processor.
func BranchingFlow(mainCount, branchCount int, startX, startY float64) []Point {
	const (
		spacingX      = 350
		branchSpacing = 150
	)

	points := make([]Point, 0, mainCount+branchCount)
	for i := 0; i < mainCount; i++ {
		points = append(points, Point{X: startX + float64(i)*spacingX, Y: startY})
	}

	branchX := startX + float64(mainCount)*spacingX
	branchStartY := startY - float64(branchCount)*branchSpacing/2
	for i := 0; i < branchCount; i++ {
		points = append(points, Point{X: branchX, Y: branchStartY + float64(i)*branchSpacing})
	}
	return points
}
