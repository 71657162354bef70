package dashboard

const title = "Energy-Efficient HVAC Control System"

const intro = `This application uses a **Reinforcement Learning (RL)** agent to optimize energy consumption
in HVAC systems while maintaining comfortable indoor conditions.`

var chartCopy = map[string]struct {
	title   string
	caption string
}{
	ChartComfort: {
		title:   "Chart 1: Comfort Score Over Episodes",
		caption: "This chart displays the comfort score achieved by the RL agent during each episode. A higher score indicates better maintenance of comfortable indoor conditions.",
	},
	ChartEnergy: {
		title:   "Chart 2: Energy Consumption Over Episodes",
		caption: "This chart illustrates the energy consumption by the HVAC system during each episode. Lower energy consumption indicates more efficient operation.",
	},
	ChartCombined: {
		title:   "Chart 3: Combined Performance Metrics",
		caption: "This chart provides a combined view of both comfort scores and energy consumption metrics, helping to visualize the trade-offs between maintaining comfort and minimizing energy usage.",
	},
}
