package monitoring

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ppusim/sim"
)

type sampleComponent struct {
	*sim.ComponentBase

	buffers []sim.Buffer
	ticked  bool
}

func (c *sampleComponent) Handle(_ sim.Event) error {
	return nil
}

func (c *sampleComponent) OutgoingBuffers() []sim.Buffer {
	return c.buffers
}

func (c *sampleComponent) TickLater() {
	c.ticked = true
}

func newSampleComponent() *sampleComponent {
	return &sampleComponent{
		ComponentBase: sim.NewComponentBase("Comp"),
		buffers: []sim.Buffer{
			sim.NewBuffer("Comp.Small", 2),
			sim.NewBuffer("Comp.Large", 10),
		},
	}
}

var _ = Describe("Monitor", func() {
	var (
		m      *Monitor
		c      *sampleComponent
		engine *sim.SerialEngine
		server *httptest.Server
	)

	BeforeEach(func() {
		m = NewMonitor()
		engine = sim.NewSerialEngine()
		m.RegisterEngine(engine)

		c = newSampleComponent()
		m.RegisterComponent(c)

		server = httptest.NewServer(m.Handler())
	})

	AfterEach(func() {
		server.Close()
	})

	get := func(path string) (*http.Response, []byte) {
		rsp, err := http.Get(server.URL + path)
		Expect(err).NotTo(HaveOccurred())
		defer rsp.Body.Close()

		body, err := io.ReadAll(rsp.Body)
		Expect(err).NotTo(HaveOccurred())

		return rsp, body
	}

	It("should register components and their buffers", func() {
		Expect(m.components).To(HaveLen(1))
		Expect(m.buffers).To(HaveLen(2))
	})

	It("should list components", func() {
		_, body := get("/api/list_components")

		var names []string
		Expect(json.Unmarshal(body, &names)).To(Succeed())
		Expect(names).To(Equal([]string{"Comp"}))
	})

	It("should report the time", func() {
		_, body := get("/api/now")

		Expect(string(body)).To(Equal(`{"now":0.0000000000}`))
	})

	It("should return 404 for unknown components", func() {
		rsp, _ := get("/api/component/Missing")

		Expect(rsp.StatusCode).To(Equal(http.StatusNotFound))
	})

	It("should tick components", func() {
		rsp, _ := get("/api/tick/Comp")

		Expect(rsp.StatusCode).To(Equal(http.StatusOK))
		Expect(c.ticked).To(BeTrue())
	})

	It("should pause and continue the engine", func() {
		rsp, _ := get("/api/pause")
		Expect(rsp.StatusCode).To(Equal(http.StatusOK))

		rsp, _ = get("/api/continue")
		Expect(rsp.StatusCode).To(Equal(http.StatusOK))
	})

	Context("when listing buffers", func() {
		BeforeEach(func() {
			c.buffers[0].Push(1)
			c.buffers[1].Push(1)
			c.buffers[1].Push(2)
		})

		It("should sort by percent", func() {
			_, body := get("/api/hangdetector/buffers")

			var rsp []bufferRsp
			Expect(json.Unmarshal(body, &rsp)).To(Succeed())
			Expect(rsp).To(HaveLen(2))
			Expect(rsp[0].Buffer).To(Equal("Comp.Small"))
		})

		It("should sort by level with a limit", func() {
			_, body := get("/api/hangdetector/buffers?sort=level&limit=1")

			var rsp []bufferRsp
			Expect(json.Unmarshal(body, &rsp)).To(Succeed())
			Expect(rsp).To(Equal([]bufferRsp{
				{Buffer: "Comp.Large", Level: 2, Cap: 10},
			}))
		})

		It("should return nothing past the end", func() {
			_, body := get("/api/hangdetector/buffers?offset=5")

			Expect(string(body)).To(Equal("[]"))
		})

		It("should reject unknown sort methods", func() {
			rsp, _ := get("/api/hangdetector/buffers?sort=name")

			Expect(rsp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	It("should list progress bars", func() {
		bar := m.CreateProgressBar("PU", 10)
		bar.IncrementInProgress(3)
		bar.MoveInProgressToFinished(2)

		_, body := get("/api/progress")

		var bars []ProgressBarSnapshot
		Expect(json.Unmarshal(body, &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Finished).To(Equal(uint64(2)))
		Expect(bars[0].InProgress).To(Equal(uint64(1)))

		m.CompleteProgressBar(bar)
		_, body = get("/api/progress")
		Expect(string(body)).To(Equal("[]"))
	})

	It("should report resources", func() {
		_, body := get("/api/resource")

		var rsp resourceRsp
		Expect(json.Unmarshal(body, &rsp)).To(Succeed())
		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should collect a profile", func() {
		m.profileDuration = 10 * time.Millisecond

		rsp, body := get("/api/profile")

		Expect(rsp.StatusCode).To(Equal(http.StatusOK))
		Expect(body).NotTo(BeEmpty())
	})
})
