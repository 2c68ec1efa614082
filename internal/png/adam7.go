package png

// adam7Pass describes one of the seven Adam7 interlacing passes.
type adam7Pass struct {
	xStart, yStart, xStep, yStep int
}

var adam7Passes = [7]adam7Pass{
	{0, 0, 8, 8},
	{4, 0, 8, 8},
	{0, 4, 4, 8},
	{2, 0, 4, 4},
	{0, 2, 2, 4},
	{1, 0, 2, 2},
	{0, 1, 1, 2},
}

func passDimensions(p adam7Pass, width, height int) (passWidth, passHeight int) {
	if width > p.xStart {
		passWidth = (width - p.xStart + p.xStep - 1) / p.xStep
	}
	if height > p.yStart {
		passHeight = (height - p.yStart + p.yStep - 1) / p.yStep
	}
	return
}
