package marketplace

// The domain services used by the business scenarios.

func (c *Client) Orders() *Resource     { return c.Resource("orders") }
func (c *Client) Auctions() *Resource   { return c.Resource("auctions") }
func (c *Client) Products() *Resource   { return c.Resource("products") }
func (c *Client) Reviews() *Resource    { return c.Resource("reviews") }
func (c *Client) Coupons() *Resource    { return c.Resource("coupons") }
func (c *Client) Tickets() *Resource    { return c.Resource("tickets") }
func (c *Client) Categories() *Resource { return c.Resource("categories") }
func (c *Client) Shops() *Resource      { return c.Resource("shops") }
func (c *Client) Returns() *Resource    { return c.Resource("returns") }
func (c *Client) Analytics() *Resource  { return c.Resource("analytics") }
