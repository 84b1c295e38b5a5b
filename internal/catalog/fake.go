package catalog

import "context"

// Fake is a deterministic in-memory provider used by tests and local
// development when no sheet endpoint is configured.
type Fake struct {
	Items []Product
	Err   error
}

// NewFake seeds a small demo catalog.
func NewFake() *Fake {
	return &Fake{Items: []Product{
		{
			ID: "p1", Name: "雪絨保濕面膜", Price: 390, Cost: 120,
			Image: "https://cdn.example.com/p1-a.jpg,https://cdn.example.com/p1-b.jpg",
			Category: "美妝保養", Stock: 40,
		},
		{
			ID: "p2", Name: "韓式辣炒年糕組", Price: 260, Cost: 90,
			Image: "https://cdn.example.com/p2.jpg", Category: "食品", Stock: 25,
		},
		{
			ID: "p3", Name: "純棉短版上衣", Price: 590, Cost: 210,
			Image: "https://cdn.example.com/p3.jpg", Category: "服飾", Stock: 0,
			Options: Options{
				{Name: "顏色", Values: []string{"黑", "紅"}},
				{Name: "尺寸", Values: []string{"S", "M"}},
			},
			Variants: []Variant{
				{Spec: "黑/S", Price: 590, Stock: 3},
				{Spec: "黑/M", Price: 590, Stock: 1},
			},
		},
		{
			ID: "p4", Name: "小熊軟糖罐", Price: 150, Cost: 45,
			Image: "https://cdn.example.com/p4.jpg", Category: "食品", Stock: 120,
		},
		{
			ID: "p5", Name: "膠原蛋白飲", Price: 880, Cost: 330,
			Image: "https://cdn.example.com/p5.jpg", Category: "美妝保養", Stock: 60,
		},
	}}
}

// Products implements Provider.
func (f *Fake) Products(ctx context.Context) ([]Product, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]Product, len(f.Items))
	copy(out, f.Items)
	return out, nil
}
